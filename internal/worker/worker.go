// Package worker runs resume analyses in the background. Analysis requests
// are acknowledged immediately over HTTP; the pool does the fetch, scoring,
// and persistence asynchronously with bounded concurrency.
package worker

import (
	"context"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-agent/internal/ingestion"
	"github.com/jonathan/interview-agent/internal/types"
)

// Store is the persistence surface the worker needs.
type Store interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SaveResult(ctx context.Context, id uuid.UUID, resumeText string, result *types.AnalysisResult) error
}

// Scorer produces an analysis result from resume text. It never fails; the
// analyzer degrades to a deterministic fallback internally.
type Scorer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) *types.AnalysisResult
}

// Status constants mirrored from the store so the worker does not import it.
const (
	statusFailed      = "FAILED"
	statusRetryNeeded = "RETRY_NEEDED"
)

// maxAttempts bounds how often a single analysis is reprocessed. The loop is
// explicit; between attempts the record is visible as RETRY_NEEDED.
const maxAttempts = 2

// Pool processes analysis jobs with bounded concurrency.
type Pool struct {
	store  Store
	scorer Scorer
	ingest func(ctx context.Context, url string) (string, *ingestion.Metadata, error)

	baseCtx context.Context
	group   *errgroup.Group
}

// New creates a Pool. Jobs run under baseCtx, not the submitting request's
// context, so an analysis survives the HTTP request that triggered it.
func New(baseCtx context.Context, store Store, scorer Scorer, concurrency int) *Pool {
	if concurrency <= 0 {
		concurrency = 4
	}
	group := new(errgroup.Group)
	group.SetLimit(concurrency)

	return &Pool{
		store:   store,
		scorer:  scorer,
		ingest:  ingestion.IngestFromURL,
		baseCtx: baseCtx,
		group:   group,
	}
}

// Submit queues one analysis job. Blocks only when the pool is saturated.
func (p *Pool) Submit(id uuid.UUID, fileURL, jobDescription string) {
	p.group.Go(func() error {
		p.process(id, fileURL, jobDescription)
		return nil
	})
}

// Wait blocks until all submitted jobs have finished.
func (p *Pool) Wait() {
	_ = p.group.Wait()
}

func (p *Pool) process(id uuid.UUID, fileURL, jobDescription string) {
	ctx := p.baseCtx

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resumeText, _, err := p.ingest(ctx, fileURL)
		if err != nil {
			if attempt < maxAttempts {
				log.Printf("[worker] analysis %s attempt %d failed, will retry: %v", id, attempt, err)
				if statusErr := p.store.UpdateStatus(ctx, id, statusRetryNeeded); statusErr != nil {
					log.Printf("[worker] analysis %s status update failed: %v", id, statusErr)
				}
				continue
			}
			log.Printf("[worker] analysis %s failed after %d attempts: %v", id, attempt, err)
			if statusErr := p.store.UpdateStatus(ctx, id, statusFailed); statusErr != nil {
				log.Printf("[worker] analysis %s status update failed: %v", id, statusErr)
			}
			return
		}

		result := p.scorer.Analyze(ctx, resumeText, jobDescription)

		if err := p.store.SaveResult(ctx, id, resumeText, result); err != nil {
			log.Printf("[worker] analysis %s save failed: %v", id, err)
			if statusErr := p.store.UpdateStatus(ctx, id, statusFailed); statusErr != nil {
				log.Printf("[worker] analysis %s status update failed: %v", id, statusErr)
			}
			return
		}

		log.Printf("[worker] analysis %s completed: score %d", id, result.TotalScore)
		return
	}
}
