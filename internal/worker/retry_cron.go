package worker

// retry_cron.go
// Background goroutine that periodically drains the email DLQ back into
// QueueEmail once the SMTP relay is healthy again. Uses the circuit breaker
// to avoid re-enqueueing into a relay that is still down.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 60 * time.Second
	retryBatchSize    = 10
	maxDLQAttempts    = 9 // 3 DLQ round-trips of 3 attempts each
)

// RetryCronConfig holds the dependencies of the email retry goroutine.
type RetryCronConfig struct {
	Mailer *infra.Mailer
	RDB    *redis.Client
}

// StartRetryCron launches a goroutine that ticks every minute and, when the
// SMTP breaker is closed, moves a batch of dead-lettered email jobs back to
// QueueEmail. Respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				drainEmailDLQ(ctx, cfg)
			}
		}
	}()
}

func drainEmailDLQ(ctx context.Context, cfg RetryCronConfig) {
	if !cfg.Mailer.IsConfigured() {
		return
	}
	// Relay still failing — leave the DLQ alone until the breaker closes.
	if cfg.Mailer.BreakerState() == infra.CBOpen {
		log.Debug().Msg("retry_cron: smtp breaker is open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueEmail
	for i := 0; i < retryBatchSize; i++ {
		raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty or redis unavailable
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: corrupt DLQ entry dropped")
			continue
		}
		if entry.Attempts >= maxDLQAttempts {
			log.Error().
				Str("job_type", entry.JobType).
				Int("attempts", entry.Attempts).
				Msg("retry_cron: giving up on dead-lettered job")
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload}
		encoded, err := json.Marshal(job)
		if err != nil {
			continue
		}
		if err := cfg.RDB.LPush(ctx, QueueEmail, encoded).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to requeue job")
			return
		}
		log.Info().Str("job_type", entry.JobType).Int("attempts", entry.Attempts).Msg("retry_cron: job requeued from DLQ")
	}
}
