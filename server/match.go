package main

// MatchPhase represents the lifecycle of a match
type MatchPhase int

const (
	PhaseLobby      MatchPhase = 0
	PhaseKickoff    MatchPhase = 1
	PhaseLive       MatchPhase = 2
	PhaseGoalScored MatchPhase = 3 // only ever seen inside a single tick
	PhaseGameOver   MatchPhase = 4
)

func (p MatchPhase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseKickoff:
		return "kickoff"
	case PhaseLive:
		return "live"
	case PhaseGoalScored:
		return "goalScored"
	case PhaseGameOver:
		return "gameOver"
	}
	return "unknown"
}

// MatchState holds score, clock and phase. Exactly one phase is active;
// PhaseTeam qualifies Kickoff and GoalScored.
type MatchState struct {
	Phase      MatchPhase
	PhaseTeam  Team
	Score      [3]int
	TimeLeft   int
	ClockArmed bool

	goalLimit    int
	matchSeconds int
}

// NewMatchState creates the match state for cfg. With AutoStart the match is
// live and the clock running from the start.
func NewMatchState(cfg Config) MatchState {
	ms := MatchState{
		Phase:        PhaseLobby,
		TimeLeft:     cfg.MatchSeconds,
		goalLimit:    cfg.GoalLimit,
		matchSeconds: cfg.MatchSeconds,
	}
	if cfg.AutoStart {
		ms.Phase = PhaseLive
		ms.ClockArmed = true
	}
	return ms
}

// KickoffTeam returns the team holding a pending kickoff, or TeamNone
func (ms *MatchState) KickoffTeam() Team {
	if ms.Phase == PhaseKickoff {
		return ms.PhaseTeam
	}
	return TeamNone
}

// BallPinned reports whether the ball must stay on the centre spot
func (ms *MatchState) BallPinned() bool {
	return ms.Phase == PhaseKickoff || ms.Phase == PhaseGameOver
}

// ScoreState returns the score in wire form
func (ms *MatchState) ScoreState() ScoreState {
	return ScoreState{Home: ms.Score[TeamHome], Away: ms.Score[TeamAway]}
}

// RecordGoal credits scorer and moves to GoalScored, then straight on to
// GameOver if the goal limit is reached or to the conceding side's kickoff.
// Returns true when the match ended.
func (ms *MatchState) RecordGoal(scorer Team) bool {
	ms.Phase = PhaseGoalScored
	ms.PhaseTeam = scorer
	ms.Score[scorer]++
	if ms.Score[TeamHome] >= ms.goalLimit || ms.Score[TeamAway] >= ms.goalLimit {
		ms.Phase = PhaseGameOver
		ms.PhaseTeam = TeamNone
		ms.ClockArmed = false
		return true
	}
	ms.Phase = PhaseKickoff
	ms.PhaseTeam = scorer.Opponent()
	return false
}

// LiftKickoff opens play if team holds the pending kickoff
func (ms *MatchState) LiftKickoff(team Team) bool {
	if ms.Phase != PhaseKickoff || ms.PhaseTeam != team {
		return false
	}
	ms.Phase = PhaseLive
	ms.PhaseTeam = TeamNone
	return true
}

// TickClock runs one second of match time. ticked reports a decrement,
// expired that the clock just ran out and the match is over.
func (ms *MatchState) TickClock() (ticked, expired bool) {
	if !ms.ClockArmed || ms.Phase == PhaseGameOver {
		return false, false
	}
	ms.TimeLeft--
	if ms.TimeLeft > 0 {
		return true, false
	}
	ms.TimeLeft = 0
	ms.Phase = PhaseGameOver
	ms.PhaseTeam = TeamNone
	ms.ClockArmed = false
	return true, true
}

// Restart zeroes score and clock and re-arms the timer
func (ms *MatchState) Restart() {
	ms.Score = [3]int{}
	ms.TimeLeft = ms.matchSeconds
	ms.ClockArmed = true
	ms.Phase = PhaseLive
	ms.PhaseTeam = TeamNone
}

// ---------- game-level transitions ----------

// scoreGoal applies a goal for scorer and broadcasts the outcome
func (g *Game) scoreGoal(scorer Team) {
	name := g.ball.LastTouchName
	if name == "" {
		name = "the team"
	}
	over := g.match.RecordGoal(scorer)
	score := g.match.ScoreState()
	g.log.Info().Int("team", int(scorer)).Str("scorer", name).
		Int("home", score.Home).Int("away", score.Away).Msg("goal")

	if over {
		g.ball.Reset()
		g.log.Info().Int("home", score.Home).Int("away", score.Away).Msg("goal limit reached, game over")
		g.broadcast(ballUpdateMsg(g.ball))
		g.broadcast(gameOverMsg(score))
		return
	}

	g.resetFormation()
	g.ball.Reset()
	g.broadcast(ballUpdateMsg(g.ball))
	g.broadcast(ScoreUpdateMsg{
		Type:        MsgScoreUpdate,
		Score:       score,
		Scorer:      name,
		Team:        int(scorer),
		KickOff:     true,
		KickOffTeam: int(g.match.KickoffTeam()),
	})
}

// liftKickoff opens play after a touch by team
func (g *Game) liftKickoff(team Team) bool {
	if !g.match.LiftKickoff(team) {
		return false
	}
	g.log.Debug().Int("team", int(team)).Msg("kickoff taken")
	g.broadcast(kickOffStartedMsg())
	return true
}

// clockTick runs on the 1 Hz schedule
func (g *Game) clockTick() {
	ticked, expired := g.match.TickClock()
	if !ticked {
		return
	}
	g.broadcast(clockUpdateMsg(g.match.TimeLeft))
	if expired {
		score := g.match.ScoreState()
		g.log.Info().Int("home", score.Home).Int("away", score.Away).Msg("time up, game over")
		g.ball.Reset()
		g.broadcast(gameOverMsg(score))
	}
}

// restartMatch resets score, clock, formation and ball
func (g *Game) restartMatch() {
	g.match.Restart()
	g.resetFormation()
	g.ball.Reset()
	g.log.Info().Msg("match restarted")
	g.broadcast(ballUpdateMsg(g.ball))
	g.broadcast(gameRestartedMsg(g.match.ScoreState()))
}

// startMatch handles the host's start button: it opens a lobby, takes a
// pending kickoff, or restarts a finished match.
func (g *Game) startMatch() {
	switch g.match.Phase {
	case PhaseLobby:
		g.restartMatch()
	case PhaseKickoff:
		g.liftKickoff(g.match.KickoffTeam())
	case PhaseGameOver:
		g.restartMatch()
	}
}
