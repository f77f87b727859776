package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-parser/internal/fetch"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse resume documents into structured JSON",
	Long: "Extract text from one or more resume documents (pdf, docx, png/jpg, html, txt), extract entities " +
		"and normalize skills. With --job every resume is also scored against the job description.",
	RunE: runParse,
}

var (
	parseInputFiles  []string
	parseOutputFile  string
	parseJobFile     string
	parseConcurrency int
	parseURL         string
	parseVerbose     bool
)

func init() {
	parseCmd.Flags().StringSliceVarP(&parseInputFiles, "in", "i", nil, "Resume document(s) to parse (repeatable)")
	parseCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	parseCmd.Flags().StringVar(&parseJobFile, "job", "", "Job description JSON to score against")
	parseCmd.Flags().IntVar(&parseConcurrency, "concurrency", 0, "Documents parsed in parallel (default from config)")
	parseCmd.Flags().StringVar(&parseURL, "url", "", "Fetch a resume document (pdf, docx, html, ...) from a URL")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print a summary of each result to stderr")
	parseCmd.MarkFlagsOneRequired("in", "url")

	rootCmd.AddCommand(parseCmd)
}

// batchOutput is one entry of the JSON written for a multi-document parse
type batchOutput struct {
	Filename string             `json:"filename"`
	Result   *types.ParseResult `json:"result,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func runParse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var job *types.JobDescription
	if parseJobFile != "" {
		job = &types.JobDescription{}
		if err := readJSON(parseJobFile, job); err != nil {
			return err
		}
	}

	docs := make([]*ingestion.Document, 0, len(parseInputFiles)+1)
	for _, path := range parseInputFiles {
		doc, err := ingestion.ReadDocument(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	if parseURL != "" {
		doc, err := fetchDocument(ctx, parseURL)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	svc, err := pipeline.NewFromConfig(ctx, appConfig, appLogger)
	if err != nil {
		return err
	}
	defer svc.Close()

	concurrency := parseConcurrency
	if concurrency <= 0 {
		concurrency = appConfig.Concurrency
	}

	results, err := svc.ParseBatch(ctx, docs, pipeline.BatchOptions{
		Job:         job,
		Concurrency: concurrency,
		OnProgress: func(e pipeline.ProgressEvent) {
			appLogger.Debug("progress", zap.String("file", e.Filename), zap.String("step", e.Step), zap.String("message", e.Message))
		},
	})
	if err != nil {
		return err
	}

	if parseVerbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		for _, r := range results {
			if r.Result != nil {
				printer.PrintResume(r.Filename, r.Result.Data)
				printer.PrintScore(r.Result.Compatibility)
			}
		}
	}

	if len(results) == 1 {
		if results[0].Err != nil {
			return results[0].Err
		}
		return writeJSON(cmd.OutOrStdout(), parseOutputFile, results[0].Result)
	}

	failed := 0
	out := make([]batchOutput, len(results))
	for i, r := range results {
		out[i] = batchOutput{Filename: r.Filename, Result: r.Result}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			failed++
		}
	}
	if err := writeJSON(cmd.OutOrStdout(), parseOutputFile, out); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

// fetchDocument downloads a resume and wraps it as a document named after the URL path
func fetchDocument(ctx context.Context, rawURL string) (*ingestion.Document, error) {
	result, err := fetch.Document(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return ingestion.NewDocument(result.Filename(), result.ContentType, result.Data)
}
