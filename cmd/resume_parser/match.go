package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score parsed resume data against a job description",
	Long: "Score a parsed resume (a parse result or a bare resume record) against a job description JSON. " +
		"With --explain the matched and missing requirements are reported as well.",
	RunE: runMatch,
}

var (
	matchResumeFile string
	matchJobFile    string
	matchOutputFile string
	matchExplain    bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchResumeFile, "resume", "r", "", "Parsed resume JSON")
	matchCmd.Flags().StringVarP(&matchJobFile, "job", "j", "", "Job description JSON")
	matchCmd.Flags().StringVarP(&matchOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	matchCmd.Flags().BoolVar(&matchExplain, "explain", false, "Include matched and missing requirements")
	_ = matchCmd.MarkFlagRequired("resume")
	_ = matchCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(matchCmd)
}

// loadResume reads a bare resume record or the "data" of a parse result
func loadResume(path string) (*types.ResumeEntities, error) {
	var probe map[string]json.RawMessage
	if err := readJSON(path, &probe); err != nil {
		return nil, err
	}
	if data, ok := probe["data"]; ok {
		var resume types.ResumeEntities
		if err := json.Unmarshal(data, &resume); err != nil {
			return nil, fmt.Errorf("failed to parse resume data in %s: %w", path, err)
		}
		return &resume, nil
	}
	var resume types.ResumeEntities
	if err := readJSON(path, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resume, err := loadResume(matchResumeFile)
	if err != nil {
		return err
	}
	var job types.JobDescription
	if err := readJSON(matchJobFile, &job); err != nil {
		return err
	}

	svc, err := pipeline.NewFromConfig(ctx, appConfig, appLogger)
	if err != nil {
		return err
	}
	defer svc.Close()

	if !matchExplain {
		result, err := svc.Match(ctx, resume, &job)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), matchOutputFile, result)
	}

	explanation, err := svc.Explain(ctx, resume, &job)
	if err != nil {
		return err
	}
	if matchOutputFile != "" {
		return writeJSON(cmd.OutOrStdout(), matchOutputFile, explanation)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintExplanation(explanation)
	return nil
}
