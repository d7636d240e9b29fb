package main

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidTeam      = eris.New("team must be 1 or 2")
	ErrTeamFull         = eris.New("team is full")
	ErrBotPoolExhausted = eris.New("no bot identity available")
	ErrAlreadyPlaying   = eris.New("session already has a player")
)

// Roster owns every player on the pitch, the shirt numbers in use and the
// bot identity pool.
type Roster struct {
	teamSize  int
	rng       *rand.Rand
	log       zerolog.Logger
	players   map[string]*Player
	numbers   [3]map[int]bool // per team, human shirt numbers in use
	botInUse  []bool
	botTarget [3]int // desired team size per team, bots fill the gap
	nextSeq   uint64
}

// NewRoster creates an empty roster for teams of teamSize with botPool identities
func NewRoster(teamSize, botPool int, rng *rand.Rand, logger zerolog.Logger) *Roster {
	r := &Roster{
		teamSize: teamSize,
		rng:      rng,
		log:      logger,
		players:  make(map[string]*Player),
		botInUse: make([]bool, botPool),
	}
	for _, t := range []Team{TeamHome, TeamAway} {
		r.numbers[t] = make(map[int]bool)
		r.botTarget[t] = teamSize
	}
	return r
}

// Get returns the player with the given id, or nil
func (r *Roster) Get(id string) *Player {
	return r.players[id]
}

// Len returns the number of players on both teams
func (r *Roster) Len() int {
	return len(r.players)
}

// All returns every player in a deterministic order (team, slot, join order)
func (r *Roster) All() []*Player {
	list := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		return a.Seq < b.Seq
	})
	return list
}

// Members returns the players of one team ordered by slot
func (r *Roster) Members(team Team) []*Player {
	var list []*Player
	for _, p := range r.All() {
		if p.Team == team {
			list = append(list, p)
		}
	}
	return list
}

// Bots returns a team's bots ordered by pool index, oldest identity first
func (r *Roster) Bots(team Team) []*Player {
	var list []*Player
	for _, p := range r.players {
		if p.Team == team && p.IsBot() {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].botIdx < list[j].botIdx })
	return list
}

// HumanCount returns how many people play for team
func (r *Roster) HumanCount(team Team) int {
	n := 0
	for _, p := range r.players {
		if p.Team == team && !p.IsBot() {
			n++
		}
	}
	return n
}

// TeamCount returns the size of team
func (r *Roster) TeamCount(team Team) int {
	n := 0
	for _, p := range r.players {
		if p.Team == team {
			n++
		}
	}
	return n
}

// freeSlot returns the first slot not held by a member of team. When role is
// set, a free slot with that role wins over earlier ones. -1 means none.
func (r *Roster) freeSlot(team Team, role Role) int {
	held := make(map[int]bool)
	for _, p := range r.players {
		if p.Team == team {
			held[p.Slot] = true
		}
	}
	first := -1
	for i := 0; i < r.teamSize; i++ {
		if held[i] {
			continue
		}
		if first < 0 {
			first = i
		}
		if role == "" || SlotFor(team, i).Role == role {
			return i
		}
	}
	return first
}

// assignNumber draws a random unused shirt number 1-11 for team, 0 if none left
func (r *Roster) assignNumber(team Team) int {
	used := r.numbers[team]
	free := make([]int, 0, MaxShirtNumber)
	for n := 1; n <= MaxShirtNumber; n++ {
		if !used[n] {
			free = append(free, n)
		}
	}
	if len(free) == 0 {
		return 0
	}
	n := free[r.rng.Intn(len(free))]
	used[n] = true
	return n
}

func (r *Roster) releaseNumber(team Team, n int) {
	if n != 0 && team.Valid() {
		delete(r.numbers[team], n)
	}
}

func (r *Roster) place(p *Player, slot int) {
	if slot < 0 {
		slot = 0
	}
	s := SlotFor(p.Team, slot)
	p.Slot = slot
	p.X = s.X
	p.Y = s.Y
	p.Role = s.Role
	r.nextSeq++
	p.Seq = r.nextSeq
	r.players[p.ID] = p
}

// AddHuman puts a person on team. A full team gives up one of its bots to make
// room; evicted is that bot, or nil. A team full of humans refuses the join.
func (r *Roster) AddHuman(id, name string, team Team) (p *Player, evicted *Player, err error) {
	if !team.Valid() {
		return nil, nil, ErrInvalidTeam
	}
	if r.players[id] != nil {
		return nil, nil, ErrAlreadyPlaying
	}
	if r.TeamCount(team) >= r.teamSize {
		evicted = r.evictBotFor(team)
		if evicted == nil {
			return nil, nil, ErrTeamFull
		}
	}
	p = &Player{
		ID:     id,
		Name:   name,
		Team:   team,
		Origin: OriginHuman,
		Number: r.assignNumber(team),
	}
	r.place(p, r.freeSlot(team, ""))
	return p, evicted, nil
}

// evictBotFor removes the bot in the highest slot of team
func (r *Roster) evictBotFor(team Team) *Player {
	var victim *Player
	for _, b := range r.Bots(team) {
		if victim == nil || b.Slot > victim.Slot {
			victim = b
		}
	}
	if victim != nil {
		r.Remove(victim.ID)
	}
	return victim
}

// Remove takes a player off the pitch, releasing its number or bot identity
func (r *Roster) Remove(id string) *Player {
	p, ok := r.players[id]
	if !ok {
		return nil
	}
	delete(r.players, id)
	if p.IsBot() {
		if p.botIdx >= 0 && p.botIdx < len(r.botInUse) {
			r.botInUse[p.botIdx] = false
		}
	} else {
		r.releaseNumber(p.Team, p.Number)
	}
	return p
}

// BotID returns the synthetic id of pool identity idx
func BotID(idx int) string {
	return fmt.Sprintf("bot-player-%03d", idx+1)
}

// BotName returns the display name a bot from identity idx wears on team
func BotName(team Team, idx int) string {
	label := "HOME"
	if team == TeamAway {
		label = "AWAY"
	}
	return fmt.Sprintf("%s-BOT-%03d", label, idx+1)
}

// spawnBot takes a free identity from the pool and places it on team
func (r *Roster) spawnBot(team Team, role Role) (*Player, error) {
	if !team.Valid() {
		return nil, ErrInvalidTeam
	}
	if r.TeamCount(team) >= r.teamSize {
		return nil, ErrTeamFull
	}
	idx := -1
	for i, used := range r.botInUse {
		if !used {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrBotPoolExhausted
	}
	r.botInUse[idx] = true
	b := &Player{
		ID:     BotID(idx),
		Name:   BotName(team, idx),
		Team:   team,
		Origin: OriginBot,
		Number: botNumberBase + idx + 1,
		botIdx: idx,
	}
	r.place(b, r.freeSlot(team, role))
	return b, nil
}

// AddBot spawns a bot on request of the host and raises the team's target size
func (r *Roster) AddBot(team Team, role Role) (*Player, error) {
	b, err := r.spawnBot(team, role)
	if err != nil {
		return nil, err
	}
	r.botTarget[team] = r.TeamCount(team)
	return b, nil
}

// RemoveBot removes a bot of team, preferring one in role, and lowers the
// team's target size. Returns nil when the team has no bot.
func (r *Roster) RemoveBot(team Team, role Role) *Player {
	if !team.Valid() {
		return nil
	}
	bots := r.Bots(team)
	if len(bots) == 0 {
		return nil
	}
	victim := bots[0]
	for _, b := range bots {
		if b.Role == role {
			victim = b
			break
		}
	}
	r.Remove(victim.ID)
	r.botTarget[team] = r.TeamCount(team)
	return victim
}

// Balance tops up or trims each team's bots so humans plus bots match the
// team's target size. Pool exhaustion stops spawning for that sweep and is
// logged only.
func (r *Roster) Balance() (added, removed []*Player) {
	for _, team := range []Team{TeamHome, TeamAway} {
		humans := r.HumanCount(team)
		required := r.botTarget[team] - humans
		if required > r.teamSize-humans {
			required = r.teamSize - humans
		}
		if required < 0 {
			required = 0
		}
		bots := r.Bots(team)
		for len(bots) > required {
			removed = append(removed, r.Remove(bots[0].ID))
			bots = bots[1:]
		}
		for missing := required - len(bots); missing > 0; missing-- {
			b, err := r.spawnBot(team, "")
			if err != nil {
				r.log.Warn().Err(err).Int("team", int(team)).Int("missing", missing).Msg("cannot fill team with bots")
				break
			}
			added = append(added, b)
		}
	}
	return added, removed
}
