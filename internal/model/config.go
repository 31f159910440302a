package model

import "time"

// Config is the complete veritas configuration.
// Sources, highest priority first: CLI flags, VERITAS_* environment, config file, DefaultConfig.
type Config struct {
	Generation  GenerationConfig  `yaml:"generation" mapstructure:"generation"`
	Solver      SolverConfig      `yaml:"solver" mapstructure:"solver"`
	Rating      RatingConfig      `yaml:"rating" mapstructure:"rating"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Limits      LimitsConfig      `yaml:"limits" mapstructure:"limits"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// GenerationConfig controls the puzzle generator
type GenerationConfig struct {
	MaxAttempts   int   `yaml:"max_attempts" mapstructure:"max_attempts"`     // retry ceiling per request
	MaxPlayers    int   `yaml:"max_players" mapstructure:"max_players"`       // largest accepted player count
	RequireUnique bool  `yaml:"require_unique" mapstructure:"require_unique"` // retry puzzles with more than one solution
	Seed          int64 `yaml:"seed" mapstructure:"seed"`                     // 0 = seed from the clock
}

// SolverConfig selects the constraint solver backend
type SolverConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // gini, exhaustive
}

// RatingConfig controls tiers and placement
type RatingConfig struct {
	TiersFile string          `yaml:"tiers_file,omitempty" mapstructure:"tiers_file"` // optional YAML tier catalog
	Placement PlacementConfig `yaml:"placement" mapstructure:"placement"`
}

// PlacementConfig is the placement-match policy
type PlacementConfig struct {
	Matches       int `yaml:"matches" mapstructure:"matches"`
	DefaultHidden int `yaml:"default_hidden" mapstructure:"default_hidden"`
	Win           int `yaml:"win" mapstructure:"win"`
	FullLoss      int `yaml:"full_loss" mapstructure:"full_loss"`
	PartialLoss   int `yaml:"partial_loss" mapstructure:"partial_loss"`
	RevealMin     int `yaml:"reveal_min" mapstructure:"reveal_min"`
	RevealMax     int `yaml:"reveal_max" mapstructure:"reveal_max"`
}

// CacheConfig controls puzzle and profile storage
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"` // disk layer; empty = memory only
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// LimitsConfig is the per-player request limit for ranked puzzles
type LimitsConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig controls batch generation
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json, console
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Generation: GenerationConfig{
			MaxAttempts: 10,
			MaxPlayers:  16,
		},
		Solver: SolverConfig{
			Backend: "gini",
		},
		Rating: RatingConfig{
			Placement: PlacementConfig{
				Matches:       5,
				DefaultHidden: 750,
				Win:           150,
				FullLoss:      200,
				PartialLoss:   100,
				RevealMin:     0,
				RevealMax:     2500,
			},
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 2 * time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Limits: LimitsConfig{
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
