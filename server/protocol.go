package main

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

// Client -> Server message types
const (
	MsgJoin      = "newPlayer"
	MsgInput     = "input"
	MsgRestart   = "restartGame"
	MsgStart     = "hostStartGame"
	MsgAddBot    = "addBot"
	MsgRemoveBot = "removeBot"
)

// Server -> Client message types
const (
	MsgWelcome        = "welcome"
	MsgHostStatus     = "hostStatus"
	MsgHostChanged    = "hostChanged"
	MsgStateSync      = "stateSync"
	MsgNewPlayer      = "newPlayer"
	MsgPlayerLeft     = "playerLeft"
	MsgPlayerUpdate   = "playerUpdate"
	MsgUpdate         = "update"
	MsgScoreUpdate    = "scoreUpdate"
	MsgGameOver       = "gameOver"
	MsgGameRestarted  = "gameRestarted"
	MsgKickOffStarted = "kickOffStarted"
)

const (
	maxNameLen  = 16
	defaultName = "Player"
	InputKick   = "kick"
)

var (
	ErrEmptyMessage   = eris.New("empty message")
	ErrUnknownMessage = eris.New("unknown message type")
)

// ---------- outbound ----------

// Outbound is any message the server sends. The set is closed: only the
// message structs in this file implement it.
type Outbound interface {
	outbound()
}

// PlayerState is the wire form of a player
type PlayerState struct {
	ID     string  `json:"id" msgpack:"id"`
	Name   string  `json:"name" msgpack:"name"`
	Team   int     `json:"team" msgpack:"team"`
	Role   string  `json:"role" msgpack:"role"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Number int     `json:"number,omitempty" msgpack:"number,omitempty"`
	IsBot  bool    `json:"isBot" msgpack:"isBot"`
}

// BallState is the wire form of the ball
type BallState struct {
	X             float64 `json:"x" msgpack:"x"`
	Y             float64 `json:"y" msgpack:"y"`
	VX            float64 `json:"vx" msgpack:"vx"`
	VY            float64 `json:"vy" msgpack:"vy"`
	Radius        float64 `json:"radius" msgpack:"radius"`
	LastTouchID   string  `json:"lastTouchId,omitempty" msgpack:"lastTouchId,omitempty"`
	LastTouchName string  `json:"lastTouchName,omitempty" msgpack:"lastTouchName,omitempty"`
}

// ScoreState is the score keyed by team number, as the client indexes it
type ScoreState struct {
	Home int `json:"1" msgpack:"1"`
	Away int `json:"2" msgpack:"2"`
}

type WelcomeMsg struct {
	Type     string `json:"type" msgpack:"type"`
	PlayerID string `json:"playerId" msgpack:"playerId"`
}

type HostStatusMsg struct {
	Type   string `json:"type" msgpack:"type"`
	IsHost bool   `json:"isHost" msgpack:"isHost"`
	HostID string `json:"hostId,omitempty" msgpack:"hostId,omitempty"`
}

type HostChangedMsg struct {
	Type        string `json:"type" msgpack:"type"`
	NewHostID   string `json:"newHostId" msgpack:"newHostId"`
	NewHostName string `json:"newHostName" msgpack:"newHostName"`
}

// StateSyncMsg is the full snapshot a session receives when it connects
type StateSyncMsg struct {
	Type     string                 `json:"type" msgpack:"type"`
	Players  map[string]PlayerState `json:"players" msgpack:"players"`
	Ball     BallState              `json:"ball" msgpack:"ball"`
	Score    ScoreState             `json:"score" msgpack:"score"`
	GameTime int                    `json:"gameTime" msgpack:"gameTime"`
	Phase    string                 `json:"phase" msgpack:"phase"`
	HostID   string                 `json:"hostId,omitempty" msgpack:"hostId,omitempty"`
}

type NewPlayerMsg struct {
	Type   string      `json:"type" msgpack:"type"`
	Player PlayerState `json:"player" msgpack:"player"`
}

type PlayerLeftMsg struct {
	Type     string `json:"type" msgpack:"type"`
	PlayerID string `json:"playerId" msgpack:"playerId"`
}

type PlayerUpdateMsg struct {
	Type   string      `json:"type" msgpack:"type"`
	Player PlayerState `json:"player" msgpack:"player"`
}

// UpdateMsg carries whichever of ball, clock and score changed
type UpdateMsg struct {
	Type     string      `json:"type" msgpack:"type"`
	Ball     *BallState  `json:"ball,omitempty" msgpack:"ball,omitempty"`
	GameTime *int        `json:"gameTime,omitempty" msgpack:"gameTime,omitempty"`
	Score    *ScoreState `json:"score,omitempty" msgpack:"score,omitempty"`
}

type ScoreUpdateMsg struct {
	Type        string     `json:"type" msgpack:"type"`
	Score       ScoreState `json:"score" msgpack:"score"`
	Scorer      string     `json:"scorer" msgpack:"scorer"`
	Team        int        `json:"team" msgpack:"team"`
	KickOff     bool       `json:"kickOff" msgpack:"kickOff"`
	KickOffTeam int        `json:"kickOffTeam" msgpack:"kickOffTeam"`
}

type GameOverMsg struct {
	Type  string     `json:"type" msgpack:"type"`
	Score ScoreState `json:"score" msgpack:"score"`
}

type GameRestartedMsg struct {
	Type  string     `json:"type" msgpack:"type"`
	Score ScoreState `json:"score" msgpack:"score"`
}

type KickOffStartedMsg struct {
	Type string `json:"type" msgpack:"type"`
}

func (WelcomeMsg) outbound()        {}
func (HostStatusMsg) outbound()     {}
func (HostChangedMsg) outbound()    {}
func (StateSyncMsg) outbound()      {}
func (NewPlayerMsg) outbound()      {}
func (PlayerLeftMsg) outbound()     {}
func (PlayerUpdateMsg) outbound()   {}
func (UpdateMsg) outbound()         {}
func (ScoreUpdateMsg) outbound()    {}
func (GameOverMsg) outbound()       {}
func (GameRestartedMsg) outbound()  {}
func (KickOffStartedMsg) outbound() {}

func welcomeMsg(id string) WelcomeMsg {
	return WelcomeMsg{Type: MsgWelcome, PlayerID: id}
}

func hostStatusMsg(isHost bool, hostID string) HostStatusMsg {
	if isHost {
		hostID = ""
	}
	return HostStatusMsg{Type: MsgHostStatus, IsHost: isHost, HostID: hostID}
}

func hostChangedMsg(id, name string) HostChangedMsg {
	return HostChangedMsg{Type: MsgHostChanged, NewHostID: id, NewHostName: name}
}

func newPlayerMsg(p *Player) NewPlayerMsg {
	return NewPlayerMsg{Type: MsgNewPlayer, Player: p.ToState()}
}

func playerLeftMsg(id string) PlayerLeftMsg {
	return PlayerLeftMsg{Type: MsgPlayerLeft, PlayerID: id}
}

func playerUpdateMsg(p *Player) PlayerUpdateMsg {
	return PlayerUpdateMsg{Type: MsgPlayerUpdate, Player: p.ToState()}
}

func ballUpdateMsg(b *Ball) UpdateMsg {
	s := b.ToState()
	return UpdateMsg{Type: MsgUpdate, Ball: &s}
}

func clockUpdateMsg(seconds int) UpdateMsg {
	return UpdateMsg{Type: MsgUpdate, GameTime: &seconds}
}

func gameOverMsg(s ScoreState) GameOverMsg {
	return GameOverMsg{Type: MsgGameOver, Score: s}
}

func gameRestartedMsg(s ScoreState) GameRestartedMsg {
	return GameRestartedMsg{Type: MsgGameRestarted, Score: s}
}

func kickOffStartedMsg() KickOffStartedMsg {
	return KickOffStartedMsg{Type: MsgKickOffStarted}
}

// ---------- inbound ----------

// Intent is a decoded client request. The set is closed: DecodeIntent only
// produces the types below, and handlers switch over them exhaustively.
type Intent interface {
	intent()
}

// JoinIntent asks to put the session's player on a team
type JoinIntent struct {
	Name string
	Team Team
}

// InputIntent moves the session's player or kicks the ball
type InputIntent struct {
	PlayerID string
	Input    string
}

// RestartIntent asks the host to reset the match
type RestartIntent struct {
	PlayerID string
}

// StartIntent asks the host to start or unpause the match
type StartIntent struct {
	PlayerID string
}

// AddBotIntent asks the host to add a bot to a team
type AddBotIntent struct {
	PlayerID string
	Team     Team
	Role     Role
}

// RemoveBotIntent asks the host to remove a bot from a team
type RemoveBotIntent struct {
	PlayerID string
	Team     Team
	Role     Role
}

func (JoinIntent) intent()      {}
func (InputIntent) intent()     {}
func (RestartIntent) intent()   {}
func (StartIntent) intent()     {}
func (AddBotIntent) intent()    {}
func (RemoveBotIntent) intent() {}

// TeamField decodes a team given either as a number or a numeric string
type TeamField int

func (t *TeamField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return eris.Wrapf(err, "team %q is not a number", s)
		}
		*t = TeamField(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = TeamField(n)
	return nil
}

type inEnvelope struct {
	Type string `json:"type"`
}

type joinPayload struct {
	Player *struct {
		Name string    `json:"name"`
		Team TeamField `json:"team"`
	} `json:"player"`
}

type inputPayload struct {
	PlayerID string `json:"playerId"`
	Input    string `json:"input"`
}

type hostPayload struct {
	PlayerID string `json:"playerId"`
}

type botPayload struct {
	PlayerID string    `json:"playerId"`
	Team     TeamField `json:"team"`
	Role     string    `json:"role"`
}

// DecodeIntent parses one text frame into an Intent. Any error means the
// frame must be dropped.
func DecodeIntent(raw []byte) (Intent, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyMessage
	}
	var env inEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, eris.Wrap(err, "decode envelope")
	}

	switch env.Type {
	case MsgJoin:
		var p joinPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, eris.Wrap(err, "decode newPlayer")
		}
		if p.Player == nil {
			return nil, eris.New("newPlayer without player")
		}
		team := Team(p.Player.Team)
		if !team.Valid() {
			return nil, ErrInvalidTeam
		}
		return JoinIntent{Name: SanitizeName(p.Player.Name), Team: team}, nil

	case MsgInput:
		var p inputPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, eris.Wrap(err, "decode input")
		}
		return InputIntent{PlayerID: p.PlayerID, Input: p.Input}, nil

	case MsgRestart:
		var p hostPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, eris.Wrap(err, "decode restartGame")
		}
		return RestartIntent{PlayerID: p.PlayerID}, nil

	case MsgStart:
		var p hostPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, eris.Wrap(err, "decode hostStartGame")
		}
		return StartIntent{PlayerID: p.PlayerID}, nil

	case MsgAddBot, MsgRemoveBot:
		var p botPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, eris.Wrapf(err, "decode %s", env.Type)
		}
		team := Team(p.Team)
		if !team.Valid() {
			return nil, ErrInvalidTeam
		}
		role, ok := ParseRole(p.Role)
		if !ok {
			return nil, eris.Errorf("unknown role %q", p.Role)
		}
		if env.Type == MsgAddBot {
			return AddBotIntent{PlayerID: p.PlayerID, Team: team, Role: role}, nil
		}
		return RemoveBotIntent{PlayerID: p.PlayerID, Team: team, Role: role}, nil
	}
	return nil, eris.Wrapf(ErrUnknownMessage, "type %q", env.Type)
}

// SanitizeName trims a display name and caps it at maxNameLen runes
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultName
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		name = string([]rune(name)[:maxNameLen])
	}
	return name
}

// Direction decodes a composed direction string such as "upLeft" into a unit
// step. Unknown words contribute nothing.
func Direction(input string) (dx, dy float64) {
	s := strings.ToLower(input)
	if strings.Contains(s, "up") {
		dy--
	}
	if strings.Contains(s, "down") {
		dy++
	}
	if strings.Contains(s, "left") {
		dx--
	}
	if strings.Contains(s, "right") {
		dx++
	}
	return dx, dy
}
