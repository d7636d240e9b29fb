package main

import "strings"

// Field geometry. All units are abstract pitch units; the client scales them.
const (
	FieldWidth     = 800.0
	FieldHeight    = 500.0
	MidfieldX      = FieldWidth / 2
	GoalHeight     = 100.0
	GoalTop        = (FieldHeight - GoalHeight) / 2
	GoalBottom     = GoalTop + GoalHeight
	PlayerRadius   = 15.0
	BallRadius     = 10.0
	MaxShirtNumber = 11
	botNumberBase  = 90 // bots wear 91, 92, ... so they never clash with humans
)

// Team identifies one side of the pitch. Team 1 defends the left goal.
type Team int

const (
	TeamNone Team = 0
	TeamHome Team = 1
	TeamAway Team = 2
)

// Valid reports whether t is one of the two playing sides
func (t Team) Valid() bool {
	return t == TeamHome || t == TeamAway
}

// Opponent returns the other side
func (t Team) Opponent() Team {
	switch t {
	case TeamHome:
		return TeamAway
	case TeamAway:
		return TeamHome
	}
	return TeamNone
}

// OwnGoalX is the x coordinate of the goal line this team defends
func (t Team) OwnGoalX() float64 {
	if t == TeamAway {
		return FieldWidth
	}
	return 0
}

// AttackGoalX is the x coordinate of the goal line this team attacks
func (t Team) AttackGoalX() float64 {
	return t.Opponent().OwnGoalX()
}

// Forward is +1 when the team attacks toward increasing x, -1 otherwise
func (t Team) Forward() float64 {
	if t == TeamAway {
		return -1
	}
	return 1
}

// Role is the tactical position a player occupies in the formation
type Role string

const (
	RoleDefender Role = "DEFENDER"
	RoleMidfield Role = "MIDFIELD"
	RoleAttacker Role = "ATTACKER"
)

// ParseRole accepts a role name in any case; ok is false for unknown roles
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleDefender:
		return RoleDefender, true
	case RoleMidfield:
		return RoleMidfield, true
	case RoleAttacker:
		return RoleAttacker, true
	}
	return "", false
}

// Origin distinguishes people from computer-controlled teammates
type Origin int

const (
	OriginHuman Origin = iota
	OriginBot
)

// Player is a member of a team roster, human or bot
type Player struct {
	ID     string
	Name   string
	Team   Team
	Role   Role
	X, Y   float64
	Number int // shirt number, 0 when none could be assigned
	Origin Origin
	Slot   int    // index into the team formation template
	Seq    uint64 // join order, lower joined earlier
	botIdx int    // index into the bot identity pool, bots only
}

// IsBot reports whether this player is computer controlled
func (p *Player) IsBot() bool {
	return p.Origin == OriginBot
}

// ToState converts the player to its wire representation
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:     p.ID,
		Name:   p.Name,
		Team:   int(p.Team),
		Role:   string(p.Role),
		X:      p.X,
		Y:      p.Y,
		Number: p.Number,
		IsBot:  p.IsBot(),
	}
}

// Ball is the single match ball
type Ball struct {
	X, Y          float64
	VX, VY        float64
	Radius        float64
	LastTouchID   string
	LastTouchName string
}

// NewBall returns a ball resting on the centre spot
func NewBall() *Ball {
	b := &Ball{Radius: BallRadius}
	b.Reset()
	return b
}

// Reset recentres the ball and forgets who touched it last
func (b *Ball) Reset() {
	b.Pin()
	b.LastTouchID = ""
	b.LastTouchName = ""
}

// Pin holds the ball on the centre spot with no velocity
func (b *Ball) Pin() {
	b.X = FieldWidth / 2
	b.Y = FieldHeight / 2
	b.VX = 0
	b.VY = 0
}

// Touch records p as the last player to play the ball
func (b *Ball) Touch(p *Player) {
	b.LastTouchID = p.ID
	b.LastTouchName = p.Name
}

// ToState converts the ball to its wire representation
func (b *Ball) ToState() BallState {
	return BallState{
		X:             b.X,
		Y:             b.Y,
		VX:            b.VX,
		VY:            b.VY,
		Radius:        b.Radius,
		LastTouchID:   b.LastTouchID,
		LastTouchName: b.LastTouchName,
	}
}

// InGoalBand reports whether y lies strictly between the goal posts
func InGoalBand(y float64) bool {
	return y > GoalTop && y < GoalBottom
}
