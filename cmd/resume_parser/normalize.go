package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/skills"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize SKILL...",
	Short: "Print the canonical names of skills",
	Long:  "Map skill names and aliases (e.g. \"js\", \"ML\", \"golang\") to canonical names, deduplicated and sorted.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNormalize,
}

var normalizeJSON bool

func init() {
	normalizeCmd.Flags().BoolVar(&normalizeJSON, "json", false, "Print a JSON array instead of one skill per line")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	normalized := skills.Normalize(args)
	if normalizeJSON {
		return writeJSON(cmd.OutOrStdout(), "", normalized)
	}
	for _, s := range normalized {
		fmt.Fprintln(cmd.OutOrStdout(), s)
	}
	return nil
}
