package main

import "math"

const (
	BallDamping       = 0.98 // velocity multiplier per tick
	ConductionFactor  = 0.3  // weight of the touch vector when a player meets the ball
	TouchSpeed        = 2.0  // speed the ball picks up from plain contact
	HumanSpeed        = 5.0  // units per input message
	DiagonalFactor    = 0.7071
	HumanKickRadius   = 50.0
	HumanKickForce    = 12.0
	kickoffLineMargin = PlayerRadius
)

// integrateBall advances the ball one tick. A pinned ball sits on the centre
// spot with no velocity.
func integrateBall(b *Ball, pinned bool) {
	if pinned {
		b.Pin()
		return
	}
	b.X += b.VX
	b.Y += b.VY
	b.VX *= BallDamping
	b.VY *= BallDamping
}

// resolveWalls bounces the ball off the touchlines and the goal lines. The
// goal mouth is open so the ball can travel into the net.
func resolveWalls(b *Ball) {
	if !InGoalBand(b.Y) {
		if b.X-b.Radius < 0 {
			b.VX = math.Abs(b.VX)
			b.X = b.Radius
		} else if b.X+b.Radius > FieldWidth {
			b.VX = -math.Abs(b.VX)
			b.X = FieldWidth - b.Radius
		}
	}
	if b.Y-b.Radius < 0 {
		b.VY = math.Abs(b.VY)
		b.Y = b.Radius
	} else if b.Y+b.Radius > FieldHeight {
		b.VY = -math.Abs(b.VY)
		b.Y = FieldHeight - b.Radius
	}
}

// separatePlayers pushes every overlapping pair apart along the line between
// their centres, each by half the overlap.
func separatePlayers(players []*Player) {
	diameter := PlayerRadius * 2
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			a, b := players[i], players[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist >= diameter {
				continue
			}
			var nx, ny float64
			if dist == 0 {
				// Stacked exactly: split along x, first player to the left
				nx, ny = 1, 0
			} else {
				nx, ny = dx/dist, dy/dist
			}
			half := (diameter - dist) / 2
			a.X -= nx * half
			a.Y -= ny * half
			b.X += nx * half
			b.Y += ny * half
		}
	}
}

// resolveBallContacts moves the ball out of any player it overlaps and blends
// its velocity toward the touch direction. A pinned ball stays put and the
// player is moved instead. Returns the last player to have touched the ball.
func resolveBallContacts(b *Ball, players []*Player, pinned bool) *Player {
	var toucher *Player
	reach := b.Radius + PlayerRadius
	for _, p := range players {
		dx := b.X - p.X
		dy := b.Y - p.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist >= reach {
			continue
		}
		var nx, ny float64
		if dist == 0 {
			nx, ny = p.Team.Forward(), 0
		} else {
			nx, ny = dx/dist, dy/dist
		}
		if pinned {
			p.X = b.X - nx*reach
			p.Y = b.Y - ny*reach
			continue
		}
		b.X = p.X + nx*reach
		b.Y = p.Y + ny*reach
		b.VX = b.VX*(1-ConductionFactor) + nx*TouchSpeed*ConductionFactor
		b.VY = b.VY*(1-ConductionFactor) + ny*TouchSpeed*ConductionFactor
		b.Touch(p)
		toucher = p
	}
	return toucher
}

// detectGoal returns the team that scored, or TeamNone. A goal needs the ball
// centre past the goal line while it is between the posts.
func detectGoal(b *Ball) Team {
	if !InGoalBand(b.Y) {
		return TeamNone
	}
	switch {
	case b.X < 0:
		return TeamAway
	case b.X > FieldWidth:
		return TeamHome
	}
	return TeamNone
}

// clampBall keeps the ball on the pitch. Inside the goal mouth the ball may
// reach the goal line itself.
func clampBall(b *Ball) {
	b.Y = Clamp(b.Y, b.Radius, FieldHeight-b.Radius)
	if InGoalBand(b.Y) {
		b.X = Clamp(b.X, 0, FieldWidth)
	} else {
		b.X = Clamp(b.X, b.Radius, FieldWidth-b.Radius)
	}
}

// clampPlayer keeps a player on the pitch, and in its own half while a
// kickoff is pending.
func clampPlayer(p *Player, kickoff bool) {
	x := p.X
	if kickoff {
		switch p.Team {
		case TeamHome:
			x = math.Min(x, MidfieldX-kickoffLineMargin)
		case TeamAway:
			x = math.Max(x, MidfieldX+kickoffLineMargin)
		}
	}
	p.X = Clamp(x, PlayerRadius, FieldWidth-PlayerRadius)
	p.Y = Clamp(p.Y, PlayerRadius, FieldHeight-PlayerRadius)
}

// moveHuman applies one directional input step to p
func moveHuman(p *Player, input string, kickoff bool) {
	dx, dy := Direction(input)
	speed := HumanSpeed
	if dx != 0 && dy != 0 {
		speed *= DiagonalFactor
	}
	p.X += dx * speed
	p.Y += dy * speed
	clampPlayer(p, kickoff)
}

// kickAway sends the ball directly away from p at the given speed
func kickAway(b *Ball, p *Player, force float64) {
	angle := math.Atan2(b.Y-p.Y, b.X-p.X)
	b.VX = math.Cos(angle) * force
	b.VY = math.Sin(angle) * force
	b.Touch(p)
}

// kickToward sends the ball from its current spot toward (tx, ty)
func kickToward(b *Ball, p *Player, tx, ty, force float64) {
	angle := math.Atan2(ty-b.Y, tx-b.X)
	b.VX = math.Cos(angle) * force
	b.VY = math.Sin(angle) * force
	b.Touch(p)
}
