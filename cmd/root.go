package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-ad-metrics/internal/config"
)

var (
	dbPath     string
	configPath string
	verbose    bool

	cfg = config.DefaultConfig()
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "admetrics",
	Short: "Ability Draft replay and synergy tool",
	Long: `Import Ability Draft match payloads and aggregate ability statistics,
then replay drafts pick by pick with synergy rankings, suggestions and
per-player impact profiles.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".admetrics", "metrics.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default ~/.admetrics/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(abilityCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// loadConfig applies .env files, config.toml and the environment. Explicit
// flags win over all of them.
func loadConfig(cmd *cobra.Command, args []string) error {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if path := config.LoadEnv(); path != "" {
		log.WithField("path", path).Debug("loaded .env")
	}

	c, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c

	if !cmd.Flags().Changed("db") && cfg.Database.Path != "" {
		dbPath = cfg.Database.Path
	}
	log.WithField("db", dbPath).Debug("using database")
	return nil
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
