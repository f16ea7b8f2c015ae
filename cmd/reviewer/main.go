package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fentz26/reviewer/internal/config"
	"github.com/fentz26/reviewer/internal/store"
)

var version = "dev"

// logLevel is shared by every logger the commands build.
var logLevel = &slog.LevelVar{}

var rootCmd = &cobra.Command{
	Use:   "reviewer",
	Short: "Reviewer - score and review a personal task backlog",
	Long: `Reviewer keeps a backlog of tasks in a local SQLite database and ranks
them by how long they have gone without effort, weighted by priority and
duration. Running it without a subcommand opens the interactive review.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool(FlagVerbose) {
			logLevel.Set(slog.LevelDebug)
		}
	},
	RunE: runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reviewer %s\n", version)
	},
}

func init() {
	logLevel.Set(slog.LevelInfo)

	viper.SetEnvPrefix("REVIEWER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .reviewer/config.yaml)")
	rootCmd.PersistentFlags().String(FlagDatabase, "", "Database path (default: ~/.reviewer/reviewer.db)")

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig merges config files with the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if db := viper.GetString(FlagDatabase); db != "" {
		cfg.Database.Path = db
	}
	return cfg, nil
}

// openStore loads the config and opens the database it names.
func openStore() (*config.Config, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := store.New(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return cfg, s, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
