package worker

// Processes PDF generation jobs from QueueDocuments. One worker run
// renders the PDF for a pending Document row (receipt, contract or
// closure report), updates its status, and enqueues an email job when
// the document has a recipient.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/infra"
	"github.com/spetoki/pastelFacil-sub000/internal/model"
	"github.com/spetoki/pastelFacil-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxGenerateAttempts = 3

type DocumentWorker struct {
	docRepo        repository.DocumentRepository
	saleRepo       repository.SaleRepository
	clientRepo     repository.ClientRepository
	closureRepo    repository.ClosureRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	businessName   string
	pdfStoragePath string
}

func NewDocumentWorker(
	docRepo repository.DocumentRepository,
	saleRepo repository.SaleRepository,
	clientRepo repository.ClientRepository,
	closureRepo repository.ClosureRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	businessName string,
	pdfStoragePath string,
) *DocumentWorker {
	return &DocumentWorker{
		docRepo:        docRepo,
		saleRepo:       saleRepo,
		clientRepo:     clientRepo,
		closureRepo:    closureRepo,
		dispatcher:     dispatcher,
		rdb:            rdb,
		businessName:   businessName,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single document job:
//  1. Parse DocumentJobPayload and load the Document row
//  2. Render the PDF matching the document kind, with exponential
//     backoff (max 3 attempts)
//  3. Update the row: generated + pdf_path, or failed + last_error
//  4. Enqueue an email job when EmailTo is set
//
// Exhausted retries move the job to the DLQ and mark the row failed so
// a manager can retry it from the documents endpoint.
func (w *DocumentWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload DocumentJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("document_worker: invalid payload")
		return
	}

	docID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		log.Error().Str("document_id", payload.DocumentID).Msg("document_worker: invalid document_id")
		return
	}

	doc, err := w.docRepo.FindByID(ctx, docID)
	if err != nil {
		log.Error().Err(err).Str("document_id", payload.DocumentID).Msg("document_worker: document not found")
		return
	}
	if doc.Status == model.DocGenerated {
		// Duplicate delivery; BRPOP is at-least-once
		return
	}

	var pdfPath string
	genErr := withRetry(ctx, maxGenerateAttempts, func(attempt int) error {
		doc.Attempts++
		path, err := w.generate(ctx, doc)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("document_id", doc.ID.String()).
				Msg("document_worker: generation attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})

	if genErr != nil {
		doc.Status = model.DocFailed
		msg := genErr.Error()
		doc.LastError = &msg
		if err := w.docRepo.Update(ctx, doc); err != nil {
			log.Error().Err(err).Str("document_id", doc.ID.String()).Msg("document_worker: marking document failed")
		}
		if w.rdb != nil {
			SendToDLQ(ctx, w.rdb, QueueDocuments, "document", raw, genErr.Error(), doc.Attempts)
		}
		return
	}

	doc.Status = model.DocGenerated
	doc.PDFPath = &pdfPath
	doc.LastError = nil
	if err := w.docRepo.Update(ctx, doc); err != nil {
		log.Error().Err(err).Str("document_id", doc.ID.String()).Msg("document_worker: saving generated document")
		return
	}
	log.Info().Str("document_id", doc.ID.String()).Str("pdf", pdfPath).Msg("document_worker: PDF generated")

	if doc.EmailTo != nil && *doc.EmailTo != "" {
		emailJob := EmailJobPayload{
			ToEmail: *doc.EmailTo,
			Subject: fmt.Sprintf("%s — %s", w.businessName, doc.Title),
			Body:    "Please find the attached document.",
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("to", *doc.EmailTo).Msg("document_worker: enqueueing email")
		}
	}
}

func (w *DocumentWorker) generate(ctx context.Context, doc *model.Document) (string, error) {
	switch doc.Kind {
	case model.DocReceipt:
		if doc.ReferenceID == nil {
			return "", fmt.Errorf("receipt document %s has no sale reference", doc.ID)
		}
		sale, err := w.saleRepo.FindByID(ctx, *doc.ReferenceID)
		if err != nil {
			return "", fmt.Errorf("loading sale %s: %w", doc.ReferenceID, err)
		}
		return infra.GenerateReceiptPDF(sale, w.businessName, w.pdfStoragePath)

	case model.DocContract:
		if doc.ClientID == nil {
			return "", fmt.Errorf("contract document %s has no client", doc.ID)
		}
		client, err := w.clientRepo.FindByID(ctx, *doc.ClientID)
		if err != nil {
			return "", fmt.Errorf("loading client %s: %w", doc.ClientID, err)
		}
		return infra.GenerateContractPDF(doc, client, w.businessName, w.pdfStoragePath)

	case model.DocClosureReport:
		if doc.ReferenceID == nil {
			return "", fmt.Errorf("closure document %s has no closure reference", doc.ID)
		}
		closure, err := w.closureRepo.FindByID(ctx, *doc.ReferenceID)
		if err != nil {
			return "", fmt.Errorf("loading closure %s: %w", doc.ReferenceID, err)
		}
		return infra.GenerateClosurePDF(closure, w.businessName, w.pdfStoragePath)

	default:
		return "", fmt.Errorf("unknown document kind %q", doc.Kind)
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
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
