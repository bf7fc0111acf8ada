package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/serlyo"
	"github.com/aretw0/serlyo/internal/platform"
	"github.com/aretw0/serlyo/pkg/core"
)

var initVersioning bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a planner in the root directory",
	Long: `Init writes a default serlyo.yaml and prepares the store.
With --versioning the directory becomes a Git repository and every change is committed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dirFlag == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			rootDir = wd
		}
		if cmd.Flags().Changed("versioning") {
			cfg.Store.Versioning = initVersioning
		}

		path, err := platform.WriteDefaultConfig(rootDir, cfg)
		switch {
		case errors.Is(err, os.ErrExist):
			fmt.Fprintf(cmd.OutOrStdout(), "Keeping existing %s\n", path)
		case err != nil:
			return err
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		}

		opts, err := factoryOptions(serlyo.WithAutoInit(true))
		if err != nil {
			return err
		}
		store, err := serlyo.OpenStore(cmd.Context(), storePath(), opts...)
		if err != nil {
			return fmt.Errorf("failed to initialize store: %w", err)
		}
		if closer, ok := store.(core.Closer); ok {
			defer closer.Close()
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Initialized serlyo planner in", rootDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initVersioning, "versioning", false, "Commit every change with Git")
}
