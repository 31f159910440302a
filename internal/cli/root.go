package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/logging"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/pipeline"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "veritas",
	Short: "Veritas - truth-teller/liar puzzle engine",
	Long: `Veritas generates and verifies truth-teller/liar logic puzzles and
rates players with a tiered ELO system.

Every person in a puzzle is either a Truth-Teller, whose statement is true,
or a Liar, whose statement is false. A guess is valid when some assignment of
roles agrees with it, with every statement, and with the announced number of
Truth-Tellers.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Veritas.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "veritas %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.veritas/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	flags.String("solver", "", "solver backend (gini, exhaustive)")
	flags.Int64("seed", 0, "random seed (0 = seed from the clock)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("solver.backend", flags.Lookup("solver"))
	_ = viper.BindPFlag("generation.seed", flags.Lookup("seed"))
	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper(), model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".veritas"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// VERITAS_GENERATION_MAX_ATTEMPTS overrides generation.max_attempts
	viper.SetEnvPrefix("VERITAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment variables are seen by Unmarshal
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("generation.max_attempts", cfg.Generation.MaxAttempts)
	v.SetDefault("generation.max_players", cfg.Generation.MaxPlayers)
	v.SetDefault("generation.require_unique", cfg.Generation.RequireUnique)
	v.SetDefault("generation.seed", cfg.Generation.Seed)
	v.SetDefault("solver.backend", cfg.Solver.Backend)
	v.SetDefault("rating.tiers_file", cfg.Rating.TiersFile)
	v.SetDefault("rating.placement.matches", cfg.Rating.Placement.Matches)
	v.SetDefault("rating.placement.default_hidden", cfg.Rating.Placement.DefaultHidden)
	v.SetDefault("rating.placement.win", cfg.Rating.Placement.Win)
	v.SetDefault("rating.placement.full_loss", cfg.Rating.Placement.FullLoss)
	v.SetDefault("rating.placement.partial_loss", cfg.Rating.Placement.PartialLoss)
	v.SetDefault("rating.placement.reveal_min", cfg.Rating.Placement.RevealMin)
	v.SetDefault("rating.placement.reveal_max", cfg.Rating.Placement.RevealMax)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	v.SetDefault("limits.requests_per_second", cfg.Limits.RequestsPerSecond)
	v.SetDefault("limits.burst", cfg.Limits.Burst)
	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}

// loadConfig resolves the effective configuration from viper
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// empty flags must not clear configured values
	if cfg.Solver.Backend == "" {
		cfg.Solver.Backend = model.DefaultConfig().Solver.Backend
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = model.DefaultConfig().Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = model.DefaultConfig().Logging.Format
	}
	if v.GetBool("verbose") {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newPipeline builds the logger and pipeline for a command
func newPipeline(mutate func(*model.Config)) (*pipeline.Pipeline, *zap.Logger, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	if mutate != nil {
		mutate(cfg)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return p, logger, nil
}
