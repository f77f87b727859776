package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/types"
)

// BatchResult is the outcome of one document of a batch. Exactly one of
// Result and Err is set.
type BatchResult struct {
	Filename string             `json:"filename"`
	Result   *types.ParseResult `json:"result,omitempty"`
	Err      error              `json:"-"`
}

// BatchOptions configures ParseBatch
type BatchOptions struct {
	Job         *types.JobDescription // optional; scores every document when set
	Concurrency int                   // documents parsed in parallel; < 1 means 1
	OnProgress  ProgressCallback
}

// ParseBatch parses docs with bounded concurrency. Results are returned in
// input order; a failing document does not stop the others. The returned
// error is only set when ctx is cancelled.
func (s *Service) ParseBatch(ctx context.Context, docs []*ingestion.Document, opts BatchOptions) ([]BatchResult, error) {
	results := make([]BatchResult, len(docs))
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, doc := range docs {
		results[i].Filename = doc.Filename
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			report := func(step string) {
				emitProgress(opts.OnProgress, step, doc.Filename, i, "")
			}
			result, err := s.parseDocument(gctx, doc, opts.Job, report)
			if err != nil {
				s.logger.Warn("document failed", zap.String("filename", doc.Filename), zap.Error(err))
				emitProgress(opts.OnProgress, StepFailed, doc.Filename, i, err.Error())
				results[i].Err = err
				return nil
			}
			emitProgress(opts.OnProgress, StepDone, doc.Filename, i,
				fmt.Sprintf("parsed %d skills, %d experience entries", len(result.Data.Skills), len(result.Data.Experience)))
			results[i].Result = result
			return nil
		})
	}

	_ = g.Wait()
	return results, ctx.Err()
}

// emitProgress calls the progress callback if configured
func emitProgress(cb ProgressCallback, step, filename string, index int, message string) {
	if cb == nil {
		return
	}
	if message == "" {
		message = step
	}
	cb(ProgressEvent{Step: step, Filename: filename, Index: index, Message: message})
}
