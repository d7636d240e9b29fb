package main

import (
	"time"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

const (
	TickRate     = 60 // physics ticks per second
	TickDuration = time.Second / TickRate
	ClockPeriod  = time.Second
)

// Config holds every tunable of the match server. Values come from the
// environment; anything unset keeps the default from DefaultConfig.
type Config struct {
	Addr      string `config:"ADDR"`
	ClientDir string `config:"CLIENT_DIR"`

	TeamSize          int           `config:"TEAM_SIZE"`
	BotPoolSize       int           `config:"BOT_POOL_SIZE"`
	GoalLimit         int           `config:"GOAL_LIMIT"`
	MatchSeconds      int           `config:"MATCH_SECONDS"`
	RebalanceInterval time.Duration `config:"REBALANCE_INTERVAL"`
	AutoStart         bool          `config:"AUTO_START"`
	AutoBalance       bool          `config:"AUTO_BALANCE"`
	Seed              int64         `config:"SEED"`

	MaxMessagesPerSec int `config:"MAX_MESSAGES_PER_SEC"`
	MaxConnsPerIP     int `config:"MAX_CONNS_PER_IP"`
	MaxTotalConns     int `config:"MAX_TOTAL_CONNS"`

	LogLevel  string `config:"LOG_LEVEL"`
	LogPretty bool   `config:"LOG_PRETTY"`

	AI AITuning
}

// AITuning collects the constants that shape bot behaviour. Every source
// revision of the game tuned these differently, so they are configuration.
type AITuning struct {
	Speed            float64 `config:"BOT_SPEED"`
	Smoothing        float64 `config:"BOT_SMOOTHING"`
	MaxSpeedFactor   float64 `config:"BOT_MAX_SPEED_FACTOR"`
	KickRadius       float64 `config:"BOT_KICK_RADIUS"`
	KickErrorMax     float64 `config:"BOT_KICK_ERROR_MAX"`
	KickoffRadius    float64 `config:"BOT_KICKOFF_RADIUS"`
	KickoffForce     float64 `config:"BOT_KICKOFF_FORCE"`
	DefenderStandoff float64 `config:"BOT_DEFENDER_STANDOFF"`
	MidChaseRadius   float64 `config:"BOT_MID_CHASE_RADIUS"`
	MidBandNear      float64 `config:"BOT_MID_BAND_NEAR"` // distance of the band's near edge from own goal
	MidBandFar       float64 `config:"BOT_MID_BAND_FAR"`  // distance of the band's far edge from own goal
	SpacingFactor    float64 `config:"BOT_SPACING_FACTOR"`
	SpacingPush      float64 `config:"BOT_SPACING_PUSH"`

	DefenderForce float64 `config:"BOT_DEFENDER_FORCE"`
	DefenderError float64 `config:"BOT_DEFENDER_ERROR"`
	MidForce      float64 `config:"BOT_MID_FORCE"`
	MidError      float64 `config:"BOT_MID_ERROR"`
	AttackerForce float64 `config:"BOT_ATTACKER_FORCE"`
	AttackerError float64 `config:"BOT_ATTACKER_ERROR"`
}

// DefaultConfig returns the three-a-side setup the game shipped with
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		ClientDir:         "../client",
		TeamSize:          3,
		BotPoolSize:       6,
		GoalLimit:         5,
		MatchSeconds:      180,
		RebalanceInterval: 5 * time.Second,
		AutoStart:         true,
		AutoBalance:       true,
		MaxMessagesPerSec: 120,
		MaxConnsPerIP:     5,
		MaxTotalConns:     1000,
		LogLevel:          "info",
		AI:                DefaultAITuning(),
	}
}

// DefaultAITuning returns the bot constants of the most complete server revision
func DefaultAITuning() AITuning {
	return AITuning{
		Speed:            1.2,
		Smoothing:        0.4,
		MaxSpeedFactor:   1.2,
		KickRadius:       40,
		KickErrorMax:     100,
		KickoffRadius:    50,
		KickoffForce:     10,
		DefenderStandoff: 120,
		MidChaseRadius:   200,
		MidBandNear:      150,
		MidBandFar:       600,
		SpacingFactor:    3,
		SpacingPush:      3.5,
		DefenderForce:    8,
		DefenderError:    2.0,
		MidForce:         7,
		MidError:         0.5,
		AttackerForce:    12,
		AttackerError:    0.8,
	}
}

// LoadConfig layers environment variables over the defaults
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "read server config from env")
	}
	if err := config.FromEnv().To(&cfg.AI); err != nil {
		return cfg, eris.Wrap(err, "read bot tuning from env")
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the roster and formation code cannot honour
func (c Config) Validate() error {
	if c.TeamSize < 1 || c.TeamSize > len(formationTemplate) {
		return eris.Errorf("team size must be 1-%d, got %d", len(formationTemplate), c.TeamSize)
	}
	if c.TeamSize > MaxShirtNumber {
		return eris.Errorf("team size %d exceeds available shirt numbers", c.TeamSize)
	}
	if c.BotPoolSize < 0 {
		return eris.Errorf("bot pool size must not be negative, got %d", c.BotPoolSize)
	}
	if c.GoalLimit < 1 {
		return eris.Errorf("goal limit must be positive, got %d", c.GoalLimit)
	}
	if c.MatchSeconds < 1 {
		return eris.Errorf("match length must be positive, got %d", c.MatchSeconds)
	}
	if c.RebalanceInterval <= 0 {
		return eris.Errorf("rebalance interval must be positive, got %s", c.RebalanceInterval)
	}
	if c.AI.Smoothing <= 0 || c.AI.Smoothing > 1 {
		return eris.Errorf("bot smoothing must be in (0,1], got %v", c.AI.Smoothing)
	}
	if c.AI.Speed <= 0 {
		return eris.Errorf("bot speed must be positive, got %v", c.AI.Speed)
	}
	return nil
}
