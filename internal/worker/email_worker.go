package worker

// email_worker.go
// Processes email jobs from QueueEmail. Sends documents to client emails via
// SMTP with retry; jobs that still fail land in the dead letter queue.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const emailMaxAttempts = 3

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
	// Attempts accumulates across DLQ round-trips so the retry cron can
	// eventually give up on a permanently failing job.
	Attempts int `json:"attempts,omitempty"`
}

type EmailWorker struct {
	mailer *infra.Mailer
	rdb    *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, rdb: rdb}
}

// Process sends an email with the PDF document attached. Transient SMTP
// failures get up to three attempts with backoff; exhausted jobs go to the
// DLQ for the retry cron to pick up once the relay recovers.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}
	if !w.mailer.IsConfigured() {
		log.Warn().Str("to", payload.ToEmail).Msg("email_worker: mailer not configured — dropping job")
		return
	}

	err := withRetry(ctx, emailMaxAttempts, func(attempt int) error {
		if w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body, "", payload.PDFPath) {
			return nil
		}
		return errors.New("smtp send failed")
	})
	if err != nil {
		payload.Attempts += emailMaxAttempts
		if updated, mErr := json.Marshal(payload); mErr == nil {
			raw = updated
		}
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), payload.Attempts)
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: document sent")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
