package main

import "sort"

// FormationSlot is one fixed position a team member can occupy
type FormationSlot struct {
	X, Y float64
	Role Role
}

// formationTemplate lists the home team's slots in fill order. The away team
// uses the same slots mirrored across the halfway line. The first three are
// the classic three-a-side layout; larger team sizes append to it.
var formationTemplate = []FormationSlot{
	{X: 100, Y: 250, Role: RoleDefender},
	{X: 250, Y: 250, Role: RoleMidfield},
	{X: 350, Y: 250, Role: RoleAttacker},
	{X: 130, Y: 130, Role: RoleDefender},
	{X: 230, Y: 380, Role: RoleMidfield},
}

// SlotFor returns slot i of the given team's formation
func SlotFor(team Team, i int) FormationSlot {
	if i < 0 || i >= len(formationTemplate) {
		i = 0
	}
	s := formationTemplate[i]
	if team == TeamAway {
		s.X = FieldWidth - s.X
	}
	return s
}

// HomeSlot returns the slot a player currently owns
func HomeSlot(p *Player) FormationSlot {
	return SlotFor(p.Team, p.Slot)
}

// formationOrder sorts a team so that humans come first, then bots. Within
// each group the current slot decides, so an unchanged roster always maps
// onto the same slots.
func formationOrder(members []*Player) {
	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if a.IsBot() != b.IsBot() {
			return !a.IsBot()
		}
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		if a.IsBot() {
			return a.botIdx < b.botIdx
		}
		return a.Seq < b.Seq
	})
}

// ResetFormation snaps every player on both teams onto its team's formation
// and returns the players in the order they were placed.
func (r *Roster) ResetFormation() []*Player {
	var placed []*Player
	for _, team := range []Team{TeamHome, TeamAway} {
		members := r.Members(team)
		formationOrder(members)
		for i, p := range members {
			slot := SlotFor(team, i)
			p.Slot = i
			p.X = slot.X
			p.Y = slot.Y
			p.Role = slot.Role
			placed = append(placed, p)
		}
	}
	return placed
}
