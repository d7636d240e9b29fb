package main

import (
	"math"
	"math/rand"
)

// BotOutcome reports what a bot did to the ball during its step
type BotOutcome struct {
	Kicked        bool
	LiftedKickoff bool
}

// Pitch is the read view of the world a bot decides from. Players includes
// the bot itself.
type Pitch struct {
	Players    []*Player
	Ball       *Ball
	Kickoff    Team // team holding the kickoff, TeamNone when play is open
	AllowKicks bool
}

// AIController drives computer-controlled players
type AIController struct {
	tune AITuning
	rng  *rand.Rand
}

// NewAIController creates a controller with the given tuning
func NewAIController(tune AITuning, rng *rand.Rand) *AIController {
	return &AIController{tune: tune, rng: rng}
}

// Step moves one bot toward its tactical position and kicks when it can
func (c *AIController) Step(bot *Player, w Pitch) BotOutcome {
	if w.Kickoff != TeamNone && bot.Team == w.Kickoff {
		return c.stepKickoff(bot, w)
	}

	ix, iy := c.IdealPosition(bot, w)
	c.approach(bot, ix, iy, w.Kickoff != TeamNone)

	if !w.AllowKicks || w.Kickoff != TeamNone {
		return BotOutcome{}
	}
	if Distance(bot.X, bot.Y, w.Ball.X, w.Ball.Y) >= c.tune.KickRadius {
		return BotOutcome{}
	}
	c.kick(bot, w)
	return BotOutcome{Kicked: true}
}

// stepKickoff handles a bot whose team holds the kickoff. Only the bot
// nearest the ball goes for it; its teammates walk back to their slots.
func (c *AIController) stepKickoff(bot *Player, w Pitch) BotOutcome {
	taker := kickoffTaker(w.Players, w.Ball, bot.Team)
	if taker != bot {
		home := HomeSlot(bot)
		c.walk(bot, home.X, home.Y, true)
		return BotOutcome{}
	}
	if w.AllowKicks && Distance(bot.X, bot.Y, w.Ball.X, w.Ball.Y) < c.tune.KickoffRadius {
		tx := MidfieldX + bot.Team.Forward()*FieldWidth/4
		kickToward(w.Ball, bot, tx, FieldHeight/2, c.tune.KickoffForce)
		return BotOutcome{Kicked: true, LiftedKickoff: true}
	}
	c.walk(bot, w.Ball.X, w.Ball.Y, true)
	return BotOutcome{}
}

// kickoffTaker returns the bot of team closest to the ball. Ties go to the
// earlier player in the slice, which is in roster order.
func kickoffTaker(players []*Player, ball *Ball, team Team) *Player {
	var best *Player
	bestDist := math.Inf(1)
	for _, p := range players {
		if p.Team != team || !p.IsBot() {
			continue
		}
		d := Distance(p.X, p.Y, ball.X, ball.Y)
		if d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// IdealPosition computes where the bot's role wants it to stand
func (c *AIController) IdealPosition(bot *Player, w Pitch) (float64, float64) {
	t := c.tune
	ball := w.Ball
	home := HomeSlot(bot)
	fwd := bot.Team.Forward()
	var ix, iy float64

	switch bot.Role {
	case RoleDefender:
		ix, iy = home.X, home.Y
		ballInOurHalf := (ball.X-MidfieldX)*fwd < 0
		if ballInOurHalf {
			gx, gy := bot.Team.OwnGoalX(), FieldHeight/2
			dx, dy := gx-ball.X, gy-ball.Y
			if d := math.Sqrt(dx*dx + dy*dy); d > 0 {
				ratio := math.Max(0, (d-t.DefenderStandoff)/d)
				ix = ball.X + dx*ratio
				iy = ball.Y + dy*ratio
			}
			limit := MidfieldX - fwd*10
			if fwd > 0 {
				ix = math.Min(ix, limit)
			} else {
				ix = math.Max(ix, limit)
			}
		}

	case RoleMidfield:
		if Distance(home.X, home.Y, ball.X, ball.Y) <= t.MidChaseRadius {
			ix, iy = ball.X, ball.Y
		} else {
			ix, iy = home.X, ball.Y
		}
		near := bot.Team.OwnGoalX() + fwd*t.MidBandNear
		far := bot.Team.OwnGoalX() + fwd*t.MidBandFar
		ix = Clamp(ix, math.Min(near, far), math.Max(near, far))

	default: // attacker
		ix, iy = ball.X, ball.Y
		line := MidfieldX + fwd*10
		safe := bot.Team.AttackGoalX() - fwd*PlayerRadius*3
		if fwd > 0 {
			ix = Clamp(ix, line, safe)
		} else {
			ix = Clamp(ix, safe, line)
		}
	}

	ix, iy = c.separate(bot, w.Players, ix, iy)
	ix = Clamp(ix, PlayerRadius, FieldWidth-PlayerRadius)
	iy = Clamp(iy, PlayerRadius, FieldHeight-PlayerRadius)
	return ix, iy
}

// separate nudges an ideal position away from teammates standing too close
func (c *AIController) separate(bot *Player, players []*Player, ix, iy float64) (float64, float64) {
	minGap := PlayerRadius * c.tune.SpacingFactor
	push := PlayerRadius * c.tune.SpacingPush
	for _, p := range players {
		if p == bot || p.Team != bot.Team {
			continue
		}
		dx, dy := ix-p.X, iy-p.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist >= minGap {
			continue
		}
		nx, ny := -bot.Team.Forward(), 0.0
		if dist > 0 {
			nx, ny = dx/dist, dy/dist
		}
		ix = p.X + nx*push
		iy = p.Y + ny*push
	}
	return ix, iy
}

// approach covers a fraction of the way to (tx, ty), capped at the bot's top speed
func (c *AIController) approach(bot *Player, tx, ty float64, kickoff bool) {
	dx, dy := tx-bot.X, ty-bot.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist > 1 {
		step := math.Min(dist*c.tune.Smoothing, c.tune.Speed*c.tune.MaxSpeedFactor)
		bot.X += dx / dist * step
		bot.Y += dy / dist * step
	}
	clampPlayer(bot, kickoff)
}

// walk moves the bot straight toward (tx, ty) at its base speed
func (c *AIController) walk(bot *Player, tx, ty float64, kickoff bool) {
	dx, dy := tx-bot.X, ty-bot.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist > 1 {
		step := math.Min(dist, c.tune.Speed)
		bot.X += dx / dist * step
		bot.Y += dy / dist * step
	}
	clampPlayer(bot, kickoff)
}

// kick picks the role's target, perturbs it and strikes the ball
func (c *AIController) kick(bot *Player, w Pitch) {
	t := c.tune
	fwd := bot.Team.Forward()
	tx, ty := bot.Team.AttackGoalX(), FieldHeight/2
	force, spread := t.AttackerForce, t.AttackerError

	switch bot.Role {
	case RoleDefender:
		tx = MidfieldX + fwd*FieldWidth/4
		force, spread = t.DefenderForce, t.DefenderError
	case RoleMidfield:
		force, spread = t.MidForce, t.MidError
		if mate := mostAdvancedTeammate(bot, w.Players); mate != nil {
			tx, ty = mate.X, mate.Y
		}
	}

	ty += Symmetric(c.rng) * t.KickErrorMax * spread
	kickToward(w.Ball, bot, tx, ty, force)
}

// mostAdvancedTeammate returns the teammate furthest upfield that is ahead of
// bot, or nil when nobody is ahead.
func mostAdvancedTeammate(bot *Player, players []*Player) *Player {
	fwd := bot.Team.Forward()
	var best *Player
	for _, p := range players {
		if p == bot || p.Team != bot.Team {
			continue
		}
		if p.X*fwd <= bot.X*fwd {
			continue
		}
		if best == nil || p.X*fwd > best.X*fwd {
			best = p
		}
	}
	return best
}
