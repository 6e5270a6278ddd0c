package service

import (
	"context"
	"errors"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/model"
	"github.com/spetoki/pastelFacil-sub000/internal/repository"
	"github.com/spetoki/pastelFacil-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentService interface {
	// CreateContract records a purchase contract and queues its PDF for
	// generation on the worker pool.
	CreateContract(ctx context.Context, req dto.CreateContractRequest) (*dto.DocumentResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
	List(ctx context.Context, kind string, page, limit int) (*dto.DocumentListResponse, error)
	// Retry re-enqueues a failed document.
	Retry(ctx context.Context, id uuid.UUID) error
	// PDFPath returns the on-disk path of a generated document's PDF.
	PDFPath(ctx context.Context, id uuid.UUID) (string, error)
}

type documentService struct {
	repo       repository.DocumentRepository
	clientRepo repository.ClientRepository
	dispatcher *worker.Dispatcher
}

func NewDocumentService(repo repository.DocumentRepository, clientRepo repository.ClientRepository, dispatcher *worker.Dispatcher) DocumentService {
	return &documentService{repo: repo, clientRepo: clientRepo, dispatcher: dispatcher}
}

func (s *documentService) CreateContract(ctx context.Context, req dto.CreateContractRequest) (*dto.DocumentResponse, error) {
	cid, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, errors.New("invalid client_id")
	}
	client, err := s.clientRepo.FindByID(ctx, cid)
	if err != nil {
		return nil, ErrClientNotFound
	}

	doc := &model.Document{
		Kind:     model.DocContract,
		ClientID: &client.ID,
		Title:    req.Title,
		Body:     &req.Body,
		Status:   model.DocPending,
		EmailTo:  req.EmailTo,
	}
	if req.SaleID != nil {
		if sid, err := uuid.Parse(*req.SaleID); err == nil {
			doc.ReferenceID = &sid
		}
	}
	if doc.EmailTo == nil {
		doc.EmailTo = client.Email
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueDocument(ctx, doc.ID); err != nil {
			log.Error().Err(err).Str("document_id", doc.ID.String()).Msg("enqueueing contract generation")
		}
	}

	return documentToResponse(doc), nil
}

func (s *documentService) Get(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrDocumentNotFound
	}
	return documentToResponse(doc), nil
}

func (s *documentService) List(ctx context.Context, kind string, page, limit int) (*dto.DocumentListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	docs, total, err := s.repo.List(ctx, kind, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, *documentToResponse(&d))
	}
	return &dto.DocumentListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *documentService) Retry(ctx context.Context, id uuid.UUID) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrDocumentNotFound
	}
	if doc.Status != model.DocFailed {
		return errors.New("only failed documents can be retried")
	}

	doc.Status = model.DocPending
	doc.LastError = nil
	doc.Attempts = 0
	if err := s.repo.Update(ctx, doc); err != nil {
		return err
	}
	if s.dispatcher == nil {
		return errors.New("document worker is not running")
	}
	return s.dispatcher.EnqueueDocument(ctx, doc.ID)
}

func (s *documentService) PDFPath(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", ErrDocumentNotFound
	}
	if doc.Status != model.DocGenerated || doc.PDFPath == nil {
		return "", errors.New("document has not been generated yet")
	}
	return *doc.PDFPath, nil
}

func documentToResponse(d *model.Document) *dto.DocumentResponse {
	resp := &dto.DocumentResponse{
		ID:        d.ID.String(),
		Kind:      d.Kind,
		Title:     d.Title,
		Status:    d.Status,
		EmailTo:   d.EmailTo,
		LastError: d.LastError,
		Attempts:  d.Attempts,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
	if d.ClientID != nil {
		id := d.ClientID.String()
		resp.ClientID = &id
	}
	if d.ReferenceID != nil {
		id := d.ReferenceID.String()
		resp.ReferenceID = &id
	}
	return resp
}
