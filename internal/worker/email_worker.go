package worker

// Processes email jobs from QueueEmail: sends the generated PDF to the
// client through the SMTP mailer, which sits behind a circuit breaker.

import (
	"context"
	"encoding/json"

	"github.com/spetoki/pastelFacil-sub000/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

type EmailWorker struct {
	mailer *infra.Mailer
	rdb    *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, rdb: rdb}
}

// Process sends one email with the PDF attached. Failed sends go to
// the DLQ; the circuit breaker inside the mailer short-circuits while
// the relay is down.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return
	}

	if err := w.mailer.SendDocument(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: send failed")
		if w.rdb != nil {
			SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), 1)
		}
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: document sent")
}
