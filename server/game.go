package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const inboxSize = 1024

var ErrGameStopped = eris.New("game loop is not running")

// Session is a connected client as the simulation sees it. Send must never
// block; delivery is best effort.
type Session interface {
	ID() string
	Encoding() Encoding
	Send(f Frame)
}

// Inbox events. Everything that mutates the world arrives as one of these and
// is handled to completion before the next event or scheduled step.
type (
	sessionOpened struct {
		session Session
	}
	sessionClosed struct {
		id string
	}
	intentReceived struct {
		sessionID string
		intent    Intent
	}
	statusQuery struct {
		reply chan<- StatusSnapshot
	}
)

// StatusSnapshot is a read-only copy of the match for the status endpoint
type StatusSnapshot struct {
	Phase    string        `json:"phase"`
	Score    ScoreState    `json:"score"`
	GameTime int           `json:"gameTime"`
	HostID   string        `json:"hostId,omitempty"`
	Sessions int           `json:"sessions"`
	Conns    int           `json:"connections"`
	Tick     uint64        `json:"tick"`
	Players  []PlayerState `json:"players"`
}

// Game owns the only copy of the world. All of its fields are touched by the
// Run goroutine alone.
type Game struct {
	cfg    Config
	log    zerolog.Logger
	rng    *rand.Rand
	roster *Roster
	ai     *AIController
	ball   *Ball
	match  MatchState
	host   HostAuthority

	sessions     map[string]Session
	sessionOrder []string // connect order, earliest first
	tick         uint64

	inbox chan any
	done  chan struct{}
}

// NewGame creates a game for cfg. A zero Seed seeds from the clock.
func NewGame(cfg Config, logger zerolog.Logger) *Game {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &Game{
		cfg:      cfg,
		log:      logger,
		rng:      rng,
		roster:   NewRoster(cfg.TeamSize, cfg.BotPoolSize, rng, logger.With().Str("component", "roster").Logger()),
		ai:       NewAIController(cfg.AI, rng),
		ball:     NewBall(),
		match:    NewMatchState(cfg),
		sessions: make(map[string]Session),
		inbox:    make(chan any, inboxSize),
		done:     make(chan struct{}),
	}
}

// Run drives the simulation until ctx is cancelled. The physics step, the
// match clock and the roster sweep all run on this goroutine.
func (g *Game) Run(ctx context.Context) {
	defer close(g.done)

	tick := time.NewTicker(TickDuration)
	defer tick.Stop()
	clock := time.NewTicker(ClockPeriod)
	defer clock.Stop()
	sweep := time.NewTicker(g.cfg.RebalanceInterval)
	defer sweep.Stop()

	g.log.Info().Int("tick_rate", TickRate).Int("team_size", g.cfg.TeamSize).
		Str("phase", g.match.Phase.String()).Msg("game loop started")
	if g.cfg.AutoBalance {
		g.rebalance()
	}

	for {
		select {
		case <-ctx.Done():
			g.log.Info().Uint64("tick", g.tick).Msg("game loop stopped")
			return
		case ev := <-g.inbox:
			g.handle(ev)
		case <-tick.C:
			g.step()
		case <-clock.C:
			g.clockTick()
		case <-sweep.C:
			if g.cfg.AutoBalance {
				g.rebalance()
			}
		}
	}
}

func (g *Game) post(ev any) error {
	select {
	case <-g.done:
		return ErrGameStopped
	default:
	}
	select {
	case g.inbox <- ev:
		return nil
	case <-g.done:
		return ErrGameStopped
	}
}

// Connect registers a new session with the game
func (g *Game) Connect(s Session) error {
	return g.post(sessionOpened{session: s})
}

// Disconnect removes a session. Callers deliver it once per session.
func (g *Game) Disconnect(id string) error {
	return g.post(sessionClosed{id: id})
}

// Dispatch queues an intent from a session
func (g *Game) Dispatch(sessionID string, in Intent) error {
	return g.post(intentReceived{sessionID: sessionID, intent: in})
}

// Status asks the game loop for a snapshot of the match
func (g *Game) Status(ctx context.Context) (StatusSnapshot, error) {
	reply := make(chan StatusSnapshot, 1)
	if err := g.post(statusQuery{reply: reply}); err != nil {
		return StatusSnapshot{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-g.done:
		return StatusSnapshot{}, ErrGameStopped
	case <-ctx.Done():
		return StatusSnapshot{}, eris.Wrap(ctx.Err(), "wait for status")
	}
}

func (g *Game) handle(ev any) {
	switch e := ev.(type) {
	case sessionOpened:
		g.onOpen(e.session)
	case sessionClosed:
		g.onClose(e.id)
	case intentReceived:
		g.onIntent(e.sessionID, e.intent)
	case statusQuery:
		e.reply <- g.status()
	default:
		g.log.Error().Str("event", fmt.Sprintf("%T", ev)).Msg("unknown inbox event")
	}
}

func (g *Game) onOpen(s Session) {
	id := s.ID()
	if _, ok := g.sessions[id]; ok {
		return
	}
	g.sessions[id] = s
	g.sessionOrder = append(g.sessionOrder, id)
	g.log.Info().Str("session", id).Int("sessions", len(g.sessions)).Msg("session connected")

	g.electHost(s)
	g.sendTo(s, welcomeMsg(id))
	g.sendTo(s, g.stateSync())
}

func (g *Game) onClose(id string) {
	if _, ok := g.sessions[id]; !ok {
		return
	}
	delete(g.sessions, id)
	for i, sid := range g.sessionOrder {
		if sid == id {
			g.sessionOrder = append(g.sessionOrder[:i], g.sessionOrder[i+1:]...)
			break
		}
	}

	p := g.roster.Remove(id)
	if p != nil {
		g.log.Info().Str("player", p.Name).Int("team", int(p.Team)).Msg("player left")
		g.broadcast(playerLeftMsg(id))
	}
	g.log.Info().Str("session", id).Int("sessions", len(g.sessions)).Msg("session disconnected")
	g.failoverHost(id)

	if p != nil {
		if g.cfg.AutoBalance {
			g.rebalance()
		}
		g.resetFormation()
	}
}

func (g *Game) onIntent(sessionID string, in Intent) {
	if _, ok := g.sessions[sessionID]; !ok {
		return
	}
	if claimed, privileged := privilegedClaim(in); privileged && !g.host.Authorize(sessionID, claimed) {
		g.log.Debug().Str("session", sessionID).Str("intent", fmt.Sprintf("%T", in)).Msg("ignoring host command from non-host")
		return
	}

	switch v := in.(type) {
	case JoinIntent:
		g.onJoin(sessionID, v)
	case InputIntent:
		g.onInput(sessionID, v)
	case RestartIntent:
		g.restartMatch()
	case StartIntent:
		g.startMatch()
	case AddBotIntent:
		g.onAddBot(v)
	case RemoveBotIntent:
		g.onRemoveBot(v)
	}
}

func (g *Game) onJoin(id string, in JoinIntent) {
	p, evicted, err := g.roster.AddHuman(id, in.Name, in.Team)
	if err != nil {
		g.log.Info().Err(err).Str("session", id).Int("team", int(in.Team)).Msg("join refused")
		return
	}
	if evicted != nil {
		g.log.Info().Str("bot", evicted.ID).Int("team", int(evicted.Team)).Msg("bot made room for a human")
		g.broadcast(playerLeftMsg(evicted.ID))
	}
	g.log.Info().Str("player", p.Name).Str("session", id).Int("team", int(p.Team)).
		Str("role", string(p.Role)).Int("number", p.Number).Msg("player joined")
	g.broadcast(newPlayerMsg(p))
	g.resetFormation()
}

func (g *Game) onInput(id string, in InputIntent) {
	if in.PlayerID != "" && in.PlayerID != id {
		return
	}
	p := g.roster.Get(id)
	if p == nil {
		return
	}
	if in.Input == InputKick {
		g.humanKick(p)
	} else {
		moveHuman(p, in.Input, g.match.KickoffTeam() != TeamNone)
	}
	g.broadcast(playerUpdateMsg(p))
}

// humanKick strikes the ball away from p if it is close enough. During a
// kickoff only the kickoff team may kick, and its kick opens play.
func (g *Game) humanKick(p *Player) {
	if g.match.Phase == PhaseGameOver {
		return
	}
	if Distance(p.X, p.Y, g.ball.X, g.ball.Y) >= HumanKickRadius {
		return
	}
	if kt := g.match.KickoffTeam(); kt != TeamNone {
		if p.Team != kt {
			return
		}
		g.liftKickoff(kt)
	}
	kickAway(g.ball, p, HumanKickForce)
}

func (g *Game) onAddBot(in AddBotIntent) {
	b, err := g.roster.AddBot(in.Team, in.Role)
	if err != nil {
		g.log.Info().Err(err).Int("team", int(in.Team)).Str("role", string(in.Role)).Msg("cannot add bot")
		return
	}
	g.log.Info().Str("bot", b.ID).Int("team", int(b.Team)).Str("role", string(b.Role)).Msg("host added bot")
	g.broadcast(newPlayerMsg(b))
	g.resetFormation()
}

func (g *Game) onRemoveBot(in RemoveBotIntent) {
	b := g.roster.RemoveBot(in.Team, in.Role)
	if b == nil {
		g.log.Info().Int("team", int(in.Team)).Str("role", string(in.Role)).Msg("no bot to remove")
		return
	}
	g.log.Info().Str("bot", b.ID).Int("team", int(b.Team)).Msg("host removed bot")
	g.broadcast(playerLeftMsg(b.ID))
	g.resetFormation()
}

// rebalance runs the bot population sweep and re-forms the teams if it
// changed anything.
func (g *Game) rebalance() {
	added, removed := g.roster.Balance()
	for _, b := range removed {
		g.log.Debug().Str("bot", b.ID).Int("team", int(b.Team)).Msg("bot retired")
		g.broadcast(playerLeftMsg(b.ID))
	}
	for _, b := range added {
		g.log.Debug().Str("bot", b.ID).Int("team", int(b.Team)).Str("role", string(b.Role)).Msg("bot spawned")
		g.broadcast(newPlayerMsg(b))
	}
	if len(added) > 0 || len(removed) > 0 {
		g.resetFormation()
	}
}

func (g *Game) resetFormation() {
	for _, p := range g.roster.ResetFormation() {
		g.broadcast(playerUpdateMsg(p))
	}
}

// step advances the world by one tick: bots decide, then the ball moves and
// collisions resolve in fixed order (walls, players, ball against players),
// then goals and bounds.
func (g *Game) step() {
	g.tick++
	players := g.roster.All()
	type pos struct{ x, y float64 }
	before := make(map[*Player]pos, len(players))
	for _, p := range players {
		before[p] = pos{p.X, p.Y}
	}

	pitch := Pitch{
		Players:    players,
		Ball:       g.ball,
		Kickoff:    g.match.KickoffTeam(),
		AllowKicks: g.match.Phase != PhaseGameOver,
	}
	for _, p := range players {
		if !p.IsBot() {
			continue
		}
		out := g.ai.Step(p, pitch)
		if out.LiftedKickoff {
			g.liftKickoff(p.Team)
			pitch.Kickoff = g.match.KickoffTeam()
		}
	}

	pinned := g.match.BallPinned()
	integrateBall(g.ball, pinned)
	resolveWalls(g.ball)
	separatePlayers(players)
	resolveBallContacts(g.ball, players, pinned)

	if scorer := detectGoal(g.ball); scorer != TeamNone {
		if g.match.Phase == PhaseLive {
			g.scoreGoal(scorer)
		} else {
			g.ball.Reset()
		}
	}

	kickoff := g.match.KickoffTeam() != TeamNone
	for _, p := range players {
		clampPlayer(p, kickoff)
	}
	clampBall(g.ball)

	for _, p := range players {
		if b := before[p]; b.x != p.X || b.y != p.Y {
			g.broadcast(playerUpdateMsg(p))
		}
	}
	g.broadcast(ballUpdateMsg(g.ball))
}

func (g *Game) stateSync() StateSyncMsg {
	players := make(map[string]PlayerState, g.roster.Len())
	for _, p := range g.roster.All() {
		players[p.ID] = p.ToState()
	}
	return StateSyncMsg{
		Type:     MsgStateSync,
		Players:  players,
		Ball:     g.ball.ToState(),
		Score:    g.match.ScoreState(),
		GameTime: g.match.TimeLeft,
		Phase:    g.match.Phase.String(),
		HostID:   g.host.Current(),
	}
}

func (g *Game) status() StatusSnapshot {
	all := g.roster.All()
	players := make([]PlayerState, 0, len(all))
	for _, p := range all {
		players = append(players, p.ToState())
	}
	return StatusSnapshot{
		Phase:    g.match.Phase.String(),
		Score:    g.match.ScoreState(),
		GameTime: g.match.TimeLeft,
		HostID:   g.host.Current(),
		Sessions: len(g.sessions),
		Tick:     g.tick,
		Players:  players,
	}
}

// sendTo delivers msg to one session
func (g *Game) sendTo(s Session, msg Outbound) {
	f, err := Encode(s.Encoding(), msg)
	if err != nil {
		g.log.Error().Err(err).Msg("encode message")
		return
	}
	s.Send(f)
}

// broadcast delivers msg to every session, encoding once per wire format
func (g *Game) broadcast(msg Outbound) {
	cache := frameCache{msg: msg}
	for _, id := range g.sessionOrder {
		s := g.sessions[id]
		f, err := cache.get(s.Encoding())
		if err != nil {
			g.log.Error().Err(err).Msg("encode broadcast")
			return
		}
		s.Send(f)
	}
}
