package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Outcome counts of a batch ranking run. A failure for one client never
// aborts the others; partial success is the expected result for large
// batches containing malformed records.
type BatchResult struct {
	Succeeded int
	Failed    int
}

// RankAll runs RankClient for every known client with a bounded worker
// pool. The returned error is non-nil only when the client list itself
// cannot be loaded; per-client failures are counted, logged and absorbed.
//
// Cancelling ctx stops queued runs from starting; runs already underway
// finish against an uncancelled context so their persistence step is never
// interrupted midway.
func (e *Engine) RankAll(ctx context.Context) (BatchResult, error) {
	clients, err := e.clients.List(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("rank all: list clients: %w", err)
	}

	runCtx := context.WithoutCancel(ctx)

	var succeeded, failed, skipped atomic.Int64
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup

	for _, c := range clients {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			// Runs still queued behind the semaphore when the batch is
			// cancelled never start; a run that got past this point
			// finishes against the uncancelled context.
			if ctx.Err() != nil {
				skipped.Add(1)
				return
			}

			if err := e.RankClient(runCtx, id); err != nil {
				failed.Add(1)
				if errors.Is(err, ErrClientNotAnalyzable) || errors.Is(err, ErrNoCandidates) {
					e.log.Debug("client skipped", zap.Int("client_id", id), zap.Error(err))
				} else {
					e.log.Warn("client ranking failed", zap.Int("client_id", id), zap.Error(err))
				}
				return
			}
			succeeded.Add(1)
		}(c.ID)
	}

	wg.Wait()

	if ctx.Err() != nil {
		e.log.Warn("batch ranking cancelled",
			zap.Int64("skipped", skipped.Load()),
			zap.Error(ctx.Err()),
		)
	}

	result := BatchResult{
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
	}

	e.log.Info("batch ranking finished",
		zap.Int("clients", len(clients)),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}
