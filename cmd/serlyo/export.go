package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/serlyo/pkg/planner"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON backup of posts, strategy and theme",
	Long: `Export writes every post (archived included), the weekly strategy and the
theme to a single JSON document. Use --output - to print it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlanner(cmd, func(p *planner.Planner) error {
			if exportOutput == "-" {
				return p.Export(cmd.Context(), cmd.OutOrStdout())
			}

			path := exportOutput
			if path == "" {
				path = filepath.Join(rootDir, planner.ExportFileName(now()))
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			if err := p.Export(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write export file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file, or - for stdout (default: serlyo-export-<timestamp>.json in the root)")
}
