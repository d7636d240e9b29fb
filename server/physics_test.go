package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntegrateBallDamping(t *testing.T) {
	b := NewBall()
	b.VX, b.VY = 10, -5
	integrateBall(b, false)

	assert.InDelta(t, MidfieldX+10, b.X, 1e-9)
	assert.InDelta(t, FieldHeight/2-5, b.Y, 1e-9)
	assert.InDelta(t, 9.8, b.VX, 1e-9)
	assert.InDelta(t, -4.9, b.VY, 1e-9)
}

func TestIntegrateBallPinned(t *testing.T) {
	b := NewBall()
	b.X, b.Y, b.VX, b.VY = 100, 100, 8, 8
	integrateBall(b, true)

	assert.Equal(t, MidfieldX, b.X)
	assert.Equal(t, FieldHeight/2, b.Y)
	assert.Zero(t, b.VX)
	assert.Zero(t, b.VY)
}

func TestResolveWalls(t *testing.T) {
	tests := []struct {
		name           string
		x, y, vx, vy   float64
		wantX, wantY   float64
		wantVX, wantVY float64
	}{
		{"top touchline", 300, 5, 1, -3, 300, BallRadius, 1, 3},
		{"bottom touchline", 300, FieldHeight - 2, 1, 3, 300, FieldHeight - BallRadius, 1, -3},
		{"left wall outside goal mouth", 5, 100, -4, 0, BallRadius, 100, 4, 0},
		{"right wall outside goal mouth", FieldWidth - 3, 400, 4, 0, FieldWidth - BallRadius, 400, -4, 0},
		{"goal mouth stays open", 5, 250, -4, 0, 5, 250, -4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Ball{X: tt.x, Y: tt.y, VX: tt.vx, VY: tt.vy, Radius: BallRadius}
			resolveWalls(b)
			assert.InDelta(t, tt.wantX, b.X, 1e-9)
			assert.InDelta(t, tt.wantY, b.Y, 1e-9)
			assert.InDelta(t, tt.wantVX, b.VX, 1e-9)
			assert.InDelta(t, tt.wantVY, b.VY, 1e-9)
		})
	}
}

func TestDetectGoal(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want Team
	}{
		{"into left goal scores for away", -1, 250, TeamAway},
		{"into right goal scores for home", FieldWidth + 1, 250, TeamHome},
		{"wide of the post", -1, 150, TeamNone},
		{"on the post is not in", -1, GoalTop, TeamNone},
		{"lower post is not in", FieldWidth + 1, GoalBottom, TeamNone},
		{"on the line is not over it", 0, 250, TeamNone},
		{"midfield", 400, 250, TeamNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectGoal(&Ball{X: tt.x, Y: tt.y, Radius: BallRadius}))
		})
	}
}

func TestSeparatePlayers(t *testing.T) {
	a := &Player{ID: "a", X: 200, Y: 200}
	b := &Player{ID: "b", X: 210, Y: 200}
	separatePlayers([]*Player{a, b})

	assert.InDelta(t, PlayerRadius*2, Distance(a.X, a.Y, b.X, b.Y), 1e-9)
	assert.InDelta(t, 190, a.X, 1e-9)
	assert.InDelta(t, 220, b.X, 1e-9)
}

func TestSeparateStackedPlayers(t *testing.T) {
	a := &Player{ID: "a", X: 200, Y: 200}
	b := &Player{ID: "b", X: 200, Y: 200}
	separatePlayers([]*Player{a, b})

	assert.InDelta(t, PlayerRadius*2, Distance(a.X, a.Y, b.X, b.Y), 1e-9)
	assert.Less(t, a.X, b.X)
	assert.Equal(t, a.Y, b.Y)
}

func TestSeparatePlayersIgnoresDistantPair(t *testing.T) {
	a := &Player{ID: "a", X: 100, Y: 100}
	b := &Player{ID: "b", X: 200, Y: 100}
	separatePlayers([]*Player{a, b})
	assert.Equal(t, 100.0, a.X)
	assert.Equal(t, 200.0, b.X)
}

func TestBallContactPushesBall(t *testing.T) {
	b := &Ball{X: 100, Y: 100, Radius: BallRadius}
	p := &Player{ID: "p1", Name: "Ana", X: 90, Y: 100}

	toucher := resolveBallContacts(b, []*Player{p}, false)

	assert.Same(t, p, toucher)
	assert.InDelta(t, 90+BallRadius+PlayerRadius, b.X, 1e-9)
	assert.InDelta(t, TouchSpeed*ConductionFactor, b.VX, 1e-9)
	assert.Equal(t, "p1", b.LastTouchID)
	assert.Equal(t, "Ana", b.LastTouchName)
	assert.Equal(t, 90.0, p.X, "player is not moved by an open ball")
}

func TestBallContactPinnedMovesPlayer(t *testing.T) {
	b := NewBall()
	p := &Player{ID: "p1", X: b.X - 10, Y: b.Y}

	toucher := resolveBallContacts(b, []*Player{p}, true)

	assert.Nil(t, toucher)
	assert.Equal(t, MidfieldX, b.X)
	assert.Zero(t, b.VX)
	assert.Empty(t, b.LastTouchID)
	assert.InDelta(t, BallRadius+PlayerRadius, Distance(p.X, p.Y, b.X, b.Y), 1e-9)
}

func TestClampBall(t *testing.T) {
	b := &Ball{X: -5, Y: 250, Radius: BallRadius}
	clampBall(b)
	assert.Equal(t, 0.0, b.X, "goal mouth lets the ball reach the line")

	b = &Ball{X: -5, Y: 100, Radius: BallRadius}
	clampBall(b)
	assert.Equal(t, BallRadius, b.X)

	b = &Ball{X: 400, Y: FieldHeight + 20, Radius: BallRadius}
	clampBall(b)
	assert.Equal(t, FieldHeight-BallRadius, b.Y)
}

func TestClampPlayerKickoffHalves(t *testing.T) {
	home := &Player{Team: TeamHome, X: 500, Y: 250}
	away := &Player{Team: TeamAway, X: 300, Y: 250}
	clampPlayer(home, true)
	clampPlayer(away, true)
	assert.Equal(t, MidfieldX-PlayerRadius, home.X)
	assert.Equal(t, MidfieldX+PlayerRadius, away.X)

	home.X, away.X = 500, 300
	clampPlayer(home, false)
	clampPlayer(away, false)
	assert.Equal(t, 500.0, home.X)
	assert.Equal(t, 300.0, away.X)
}

func TestClampPlayerField(t *testing.T) {
	p := &Player{Team: TeamHome, X: -40, Y: 900}
	clampPlayer(p, false)
	assert.Equal(t, PlayerRadius, p.X)
	assert.Equal(t, FieldHeight-PlayerRadius, p.Y)
}

func TestMoveHuman(t *testing.T) {
	p := &Player{Team: TeamHome, X: 200, Y: 200}
	moveHuman(p, "right", false)
	assert.InDelta(t, 205, p.X, 1e-9)
	assert.InDelta(t, 200, p.Y, 1e-9)

	p = &Player{Team: TeamHome, X: 200, Y: 200}
	moveHuman(p, "upLeft", false)
	assert.InDelta(t, 200-HumanSpeed*DiagonalFactor, p.X, 1e-9)
	assert.InDelta(t, 200-HumanSpeed*DiagonalFactor, p.Y, 1e-9)

	p = &Player{Team: TeamHome, X: MidfieldX - PlayerRadius, Y: 200}
	moveHuman(p, "right", true)
	assert.Equal(t, MidfieldX-PlayerRadius, p.X, "kickoff keeps the player in its half")
}

func TestKickAway(t *testing.T) {
	b := &Ball{X: 110, Y: 100, Radius: BallRadius}
	p := &Player{ID: "p", Name: "Kim", X: 100, Y: 100}
	kickAway(b, p, HumanKickForce)

	assert.InDelta(t, HumanKickForce, b.VX, 1e-9)
	assert.InDelta(t, 0, b.VY, 1e-9)
	assert.Equal(t, "Kim", b.LastTouchName)
}

func TestKickToward(t *testing.T) {
	b := &Ball{X: 100, Y: 100, Radius: BallRadius}
	p := &Player{ID: "p", X: 90, Y: 100}
	kickToward(b, p, 100, 200, 10)

	assert.InDelta(t, 0, b.VX, 1e-9)
	assert.InDelta(t, 10, b.VY, 1e-9)
	assert.Equal(t, "p", b.LastTouchID)
}
