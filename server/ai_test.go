package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBot(id string, team Team, slot int, x, y float64) *Player {
	s := SlotFor(team, slot)
	return &Player{ID: id, Name: id, Team: team, Role: s.Role, Slot: slot, X: x, Y: y, Origin: OriginBot}
}

func newTestAI() *AIController {
	return NewAIController(DefaultAITuning(), rand.New(rand.NewSource(1)))
}

func TestDefenderHoldsSlotWhenBallUpfield(t *testing.T) {
	ai := newTestAI()
	bot := testBot("d", TeamHome, 0, 100, 250)
	ball := &Ball{X: 600, Y: 100, Radius: BallRadius}

	x, y := ai.IdealPosition(bot, Pitch{Players: []*Player{bot}, Ball: ball})
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 250.0, y)
}

func TestDefenderStandsOffBetweenBallAndGoal(t *testing.T) {
	ai := newTestAI()

	home := testBot("d1", TeamHome, 0, 100, 250)
	x, y := ai.IdealPosition(home, Pitch{Players: []*Player{home}, Ball: &Ball{X: 200, Y: 250}})
	assert.InDelta(t, 120, x, 1e-9)
	assert.InDelta(t, 250, y, 1e-9)

	away := testBot("d2", TeamAway, 0, 700, 250)
	x, y = ai.IdealPosition(away, Pitch{Players: []*Player{away}, Ball: &Ball{X: 600, Y: 250}})
	assert.InDelta(t, 680, x, 1e-9)
	assert.InDelta(t, 250, y, 1e-9)
}

func TestDefenderCloseToGoalMeetsBall(t *testing.T) {
	ai := newTestAI()
	bot := testBot("d", TeamHome, 0, 100, 250)
	x, _ := ai.IdealPosition(bot, Pitch{Players: []*Player{bot}, Ball: &Ball{X: 50, Y: 250}})
	assert.InDelta(t, 50, x, 1e-9)
}

func TestMidfielderChasesOrTracks(t *testing.T) {
	ai := newTestAI()
	bot := testBot("m", TeamHome, 1, 250, 250)

	x, y := ai.IdealPosition(bot, Pitch{Players: []*Player{bot}, Ball: &Ball{X: 300, Y: 300}})
	assert.InDelta(t, 300, x, 1e-9)
	assert.InDelta(t, 300, y, 1e-9)

	x, y = ai.IdealPosition(bot, Pitch{Players: []*Player{bot}, Ball: &Ball{X: 700, Y: 100}})
	assert.InDelta(t, 250, x, 1e-9)
	assert.InDelta(t, 100, y, 1e-9)
}

func TestMidfielderStaysInBand(t *testing.T) {
	ai := newTestAI()
	bot := testBot("m", TeamHome, 1, 160, 250)
	x, _ := ai.IdealPosition(bot, Pitch{Players: []*Player{bot}, Ball: &Ball{X: 60, Y: 250}})
	assert.InDelta(t, 150, x, 1e-9)
}

func TestAttackerStaysUpfield(t *testing.T) {
	ai := newTestAI()
	bot := testBot("a", TeamHome, 2, 450, 250)

	x, _ := ai.IdealPosition(bot, Pitch{Players: []*Player{bot}, Ball: &Ball{X: 100, Y: 250}})
	assert.InDelta(t, MidfieldX+10, x, 1e-9)

	x, _ = ai.IdealPosition(bot, Pitch{Players: []*Player{bot}, Ball: &Ball{X: 790, Y: 250}})
	assert.InDelta(t, FieldWidth-PlayerRadius*3, x, 1e-9)

	away := testBot("a2", TeamAway, 2, 350, 250)
	x, _ = ai.IdealPosition(away, Pitch{Players: []*Player{away}, Ball: &Ball{X: 700, Y: 250}})
	assert.InDelta(t, MidfieldX-10, x, 1e-9)
}

func TestIdealPositionSpacesTeammates(t *testing.T) {
	ai := newTestAI()
	bot := testBot("a", TeamHome, 2, 450, 250)
	mate := testBot("m", TeamHome, 1, 500, 250)

	x, y := ai.IdealPosition(bot, Pitch{Players: []*Player{bot, mate}, Ball: &Ball{X: 500, Y: 250}})
	assert.GreaterOrEqual(t, Distance(x, y, mate.X, mate.Y), PlayerRadius*3, "ideal spot keeps clear of a teammate")
}

func TestApproachCapsSpeed(t *testing.T) {
	ai := newTestAI()
	bot := testBot("a", TeamHome, 2, 100, 250)
	ai.approach(bot, 200, 250, false)

	tune := DefaultAITuning()
	assert.InDelta(t, 100+tune.Speed*tune.MaxSpeedFactor, bot.X, 1e-9)
}

func TestApproachSmoothsShortMoves(t *testing.T) {
	ai := newTestAI()
	bot := testBot("a", TeamHome, 2, 100, 250)
	ai.approach(bot, 103, 250, false)
	assert.InDelta(t, 100+3*DefaultAITuning().Smoothing, bot.X, 1e-9)
}

func TestKickoffTakerKicksAndLifts(t *testing.T) {
	ai := newTestAI()
	ball := NewBall()
	taker := testBot("t", TeamHome, 2, MidfieldX-30, FieldHeight/2)
	other := testBot("o", TeamHome, 0, 300, 100)
	w := Pitch{Players: []*Player{other, taker}, Ball: ball, Kickoff: TeamHome, AllowKicks: true}

	out := ai.Step(taker, w)
	assert.True(t, out.Kicked)
	assert.True(t, out.LiftedKickoff)
	assert.Greater(t, ball.VX, 0.0, "home kicks off toward the away goal")
	assert.Equal(t, "t", ball.LastTouchID)

	out = ai.Step(other, w)
	assert.False(t, out.Kicked)
}

func TestKickoffTakerWalksToBall(t *testing.T) {
	ai := newTestAI()
	ball := NewBall()
	taker := testBot("t", TeamAway, 2, 600, FieldHeight/2)
	w := Pitch{Players: []*Player{taker}, Ball: ball, Kickoff: TeamAway, AllowKicks: true}

	out := ai.Step(taker, w)
	assert.False(t, out.LiftedKickoff)
	assert.Less(t, taker.X, 600.0)
	assert.Zero(t, ball.VX)
}

func TestDefendingSideWaitsDuringKickoff(t *testing.T) {
	ai := newTestAI()
	ball := NewBall()
	bot := testBot("a", TeamAway, 2, MidfieldX+PlayerRadius, FieldHeight/2)
	w := Pitch{Players: []*Player{bot}, Ball: ball, Kickoff: TeamHome, AllowKicks: true}

	for i := 0; i < 30; i++ {
		out := ai.Step(bot, w)
		require.False(t, out.Kicked)
	}
	assert.GreaterOrEqual(t, bot.X, MidfieldX+PlayerRadius)
	assert.Zero(t, ball.VX)
	assert.Zero(t, ball.VY)
}

func TestKickoffTakerIsNearestBot(t *testing.T) {
	ball := NewBall()
	near := testBot("near", TeamHome, 2, 350, 250)
	far := testBot("far", TeamHome, 0, 100, 250)
	human := &Player{ID: "h", Team: TeamHome, X: 390, Y: 250}
	assert.Same(t, near, kickoffTaker([]*Player{far, human, near}, ball, TeamHome))
	assert.Nil(t, kickoffTaker([]*Player{far, near}, ball, TeamAway))
}

func TestAttackerShootsAtGoal(t *testing.T) {
	ai := newTestAI()
	ball := &Ball{X: 600, Y: 250, Radius: BallRadius}
	bot := testBot("a", TeamHome, 2, 580, 250)
	w := Pitch{Players: []*Player{bot}, Ball: ball, AllowKicks: true}

	out := ai.Step(bot, w)
	require.True(t, out.Kicked)
	assert.Greater(t, ball.VX, 0.0)
	assert.InDelta(t, DefaultAITuning().AttackerForce, Distance(0, 0, ball.VX, ball.VY), 1e-9)
}

func TestNoKickWhenKicksDisabled(t *testing.T) {
	ai := newTestAI()
	ball := &Ball{X: 600, Y: 250, Radius: BallRadius}
	bot := testBot("a", TeamHome, 2, 580, 250)

	out := ai.Step(bot, Pitch{Players: []*Player{bot}, Ball: ball})
	assert.False(t, out.Kicked)
	assert.Zero(t, ball.VX)
}

func TestMostAdvancedTeammate(t *testing.T) {
	bot := testBot("m", TeamHome, 1, 300, 250)
	behind := testBot("d", TeamHome, 0, 100, 250)
	ahead := testBot("a", TeamHome, 2, 500, 200)
	rival := &Player{ID: "r", Team: TeamAway, X: 700, Y: 250}

	assert.Same(t, ahead, mostAdvancedTeammate(bot, []*Player{bot, behind, ahead, rival}))
	assert.Nil(t, mostAdvancedTeammate(ahead, []*Player{bot, behind, ahead, rival}))

	awayBot := testBot("am", TeamAway, 1, 500, 250)
	awayAhead := testBot("aa", TeamAway, 2, 300, 250)
	assert.Same(t, awayAhead, mostAdvancedTeammate(awayBot, []*Player{awayBot, awayAhead}))
}

func TestMidfielderPassesForward(t *testing.T) {
	ai := newTestAI()
	ball := &Ball{X: 310, Y: 250, Radius: BallRadius}
	bot := testBot("m", TeamHome, 1, 300, 250)
	mate := testBot("a", TeamHome, 2, 600, 250)

	ai.kick(bot, Pitch{Players: []*Player{bot, mate}, Ball: ball, AllowKicks: true})
	assert.Greater(t, ball.VX, 0.0)
	assert.InDelta(t, DefaultAITuning().MidForce, Distance(0, 0, ball.VX, ball.VY), 1e-9)
}
