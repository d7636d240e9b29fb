package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatchConfig() Config {
	cfg := DefaultConfig()
	cfg.GoalLimit = 2
	cfg.MatchSeconds = 3
	return cfg
}

func TestNewMatchStateAutoStart(t *testing.T) {
	ms := NewMatchState(testMatchConfig())
	assert.Equal(t, PhaseLive, ms.Phase)
	assert.True(t, ms.ClockArmed)
	assert.Equal(t, 3, ms.TimeLeft)

	cfg := testMatchConfig()
	cfg.AutoStart = false
	ms = NewMatchState(cfg)
	assert.Equal(t, PhaseLobby, ms.Phase)
	assert.False(t, ms.ClockArmed)
}

func TestRecordGoalGivesConcedingSideKickoff(t *testing.T) {
	ms := NewMatchState(testMatchConfig())
	over := ms.RecordGoal(TeamHome)

	assert.False(t, over)
	assert.Equal(t, PhaseKickoff, ms.Phase)
	assert.Equal(t, TeamAway, ms.KickoffTeam())
	assert.True(t, ms.BallPinned())
	assert.Equal(t, ScoreState{Home: 1}, ms.ScoreState())
}

func TestRecordGoalEndsAtLimit(t *testing.T) {
	ms := NewMatchState(testMatchConfig())
	ms.RecordGoal(TeamAway)
	require.True(t, ms.LiftKickoff(TeamHome))
	over := ms.RecordGoal(TeamAway)

	assert.True(t, over)
	assert.Equal(t, PhaseGameOver, ms.Phase)
	assert.False(t, ms.ClockArmed)
	assert.True(t, ms.BallPinned())
	assert.Equal(t, TeamNone, ms.KickoffTeam())
	assert.Equal(t, ScoreState{Away: 2}, ms.ScoreState())
}

func TestLiftKickoffOnlyForKickoffTeam(t *testing.T) {
	ms := NewMatchState(testMatchConfig())
	assert.False(t, ms.LiftKickoff(TeamHome), "no kickoff pending")

	ms.RecordGoal(TeamHome)
	assert.False(t, ms.LiftKickoff(TeamHome), "the scoring side cannot take the kickoff")
	assert.True(t, ms.LiftKickoff(TeamAway))
	assert.Equal(t, PhaseLive, ms.Phase)
	assert.False(t, ms.BallPinned())
}

func TestTickClockCountsDownToGameOver(t *testing.T) {
	ms := NewMatchState(testMatchConfig())

	ticked, expired := ms.TickClock()
	assert.True(t, ticked)
	assert.False(t, expired)
	assert.Equal(t, 2, ms.TimeLeft)

	ms.TickClock()
	ticked, expired = ms.TickClock()
	assert.True(t, ticked)
	assert.True(t, expired)
	assert.Equal(t, 0, ms.TimeLeft)
	assert.Equal(t, PhaseGameOver, ms.Phase)

	ticked, _ = ms.TickClock()
	assert.False(t, ticked, "the clock stays at zero")
	assert.Equal(t, 0, ms.TimeLeft)
}

func TestTickClockExpiresDuringKickoff(t *testing.T) {
	cfg := testMatchConfig()
	cfg.MatchSeconds = 1
	ms := NewMatchState(cfg)
	ms.RecordGoal(TeamHome)

	_, expired := ms.TickClock()
	assert.True(t, expired)
	assert.Equal(t, PhaseGameOver, ms.Phase)
	assert.Equal(t, TeamNone, ms.KickoffTeam())
}

func TestTickClockIdleInLobby(t *testing.T) {
	cfg := testMatchConfig()
	cfg.AutoStart = false
	ms := NewMatchState(cfg)
	ticked, _ := ms.TickClock()
	assert.False(t, ticked)
	assert.Equal(t, 3, ms.TimeLeft)
}

func TestRestart(t *testing.T) {
	ms := NewMatchState(testMatchConfig())
	ms.RecordGoal(TeamHome)
	ms.TickClock()
	ms.Restart()

	assert.Equal(t, PhaseLive, ms.Phase)
	assert.Equal(t, ScoreState{}, ms.ScoreState())
	assert.Equal(t, 3, ms.TimeLeft)
	assert.True(t, ms.ClockArmed)
}

func TestMatchPhaseString(t *testing.T) {
	assert.Equal(t, "lobby", PhaseLobby.String())
	assert.Equal(t, "kickoff", PhaseKickoff.String())
	assert.Equal(t, "live", PhaseLive.String())
	assert.Equal(t, "gameOver", PhaseGameOver.String())
	assert.Equal(t, "unknown", MatchPhase(42).String())
}
