package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/serlyo"
	"github.com/aretw0/serlyo/internal/metrics"
	"github.com/aretw0/serlyo/internal/platform"
	"github.com/aretw0/serlyo/pkg/planner"
)

var (
	verbose    bool
	dirFlag    string
	configFile string
	adapter    string
	readOnly   bool

	// Resolved by the root command before any subcommand runs.
	cfg     platform.Config
	rootDir string
	stats   = metrics.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serlyo",
	Short: "A personal editorial calendar planner",
	Long: `Serlyo plans social media posts on a monthly calendar.
A weekly strategy decides which weekdays get a post and in which format,
and every change is written through to the store (optionally versioned with Git).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}
		rootDir = root

		loaded, err := platform.LoadConfig(configFile, rootDir)
		if err != nil {
			return err
		}
		cfg = loaded
		if cmd.Flags().Changed("adapter") {
			cfg.Store.Adapter = adapter
		}
		if readOnly {
			cfg.Store.ReadOnly = true
		}

		level := platform.ParseLevel(cfg.Log.Level)
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "C", "", "Planner root (default: nearest root above the working directory)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: <root>/serlyo.yaml)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", platform.AdapterFS, "Storage adapter: fs, sqlite or memory")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Reject every write")
}

// resolveRoot prefers --dir, then the nearest root above the working directory,
// then the working directory itself.
func resolveRoot() (string, error) {
	if dirFlag != "" {
		return filepath.Abs(dirFlag)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if root, err := platform.FindRoot(wd); err == nil {
		return root, nil
	}
	return wd, nil
}

// storePath resolves the configured store path against the root.
func storePath() string {
	if filepath.IsAbs(cfg.Store.Path) {
		return cfg.Store.Path
	}
	return filepath.Join(rootDir, cfg.Store.Path)
}

// factoryOptions builds the factory options shared by every command.
func factoryOptions(extra ...serlyo.Option) ([]serlyo.Option, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	opts = append(opts,
		serlyo.WithLogger(slog.Default()),
		serlyo.WithPlannerOptions(
			planner.WithVersion(serlyo.Version),
			planner.WithRecorder(stats),
		),
	)
	return append(opts, extra...), nil
}

// openPlanner opens the configured store and loads the planner.
func openPlanner(cmd *cobra.Command) (*planner.Planner, error) {
	opts, err := factoryOptions()
	if err != nil {
		return nil, err
	}
	p, err := serlyo.New(cmd.Context(), storePath(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open planner: %w", err)
	}
	return p, nil
}

// withPlanner opens the planner, runs fn and closes the planner.
func withPlanner(cmd *cobra.Command, fn func(p *planner.Planner) error) error {
	p, err := openPlanner(cmd)
	if err != nil {
		return err
	}
	defer p.Close()
	return fn(p)
}
