package worker

// Background goroutine that sweeps Document rows stuck in pending.
// A row stays pending forever when its enqueue was lost, e.g. Redis was
// unreachable the moment the document was created. The sweeper
// re-enqueues those rows in small batches.

import (
	"context"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	sweepTickInterval = 30 * time.Second
	sweepBatchSize    = 10
	// A pending row younger than this is probably still in the queue.
	sweepMinAge = 2 * time.Minute
)

// StartPendingSweeper launches a goroutine that ticks every 30s and
// re-enqueues stuck pending documents. Respects ctx for graceful shutdown.
func StartPendingSweeper(ctx context.Context, docRepo repository.DocumentRepository, dispatcher *Dispatcher) {
	go func() {
		ticker := time.NewTicker(sweepTickInterval)
		defer ticker.Stop()

		log.Info().Msg("pending_sweeper: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("pending_sweeper: shutting down")
				return
			case <-ticker.C:
				sweepPending(ctx, docRepo, dispatcher)
			}
		}
	}()
}

func sweepPending(ctx context.Context, docRepo repository.DocumentRepository, dispatcher *Dispatcher) {
	cutoff := time.Now().Add(-sweepMinAge)
	docs, err := docRepo.ListStuckPending(ctx, cutoff, sweepBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("pending_sweeper: querying stuck documents")
		return
	}
	if len(docs) == 0 {
		return
	}

	log.Info().Int("count", len(docs)).Msg("pending_sweeper: re-enqueueing stuck documents")

	for i := range docs {
		if err := dispatcher.EnqueueDocument(ctx, docs[i].ID); err != nil {
			log.Warn().Err(err).Str("document_id", docs[i].ID.String()).Msg("pending_sweeper: re-enqueue failed")
			return // Redis still down, try again next tick
		}
	}
}
