package tests

import (
	"context"
	"testing"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/model"
	"github.com/spetoki/pastelFacil-sub000/internal/repository"
	"github.com/spetoki/pastelFacil-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory DocumentRepository ─────────────────────────────────────────────

type memDocRepo struct {
	docs map[uuid.UUID]*model.Document
}

func newMemDocRepo() *memDocRepo {
	return &memDocRepo{docs: map[uuid.UUID]*model.Document{}}
}

func (r *memDocRepo) seed(d model.Document) uuid.UUID {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	dd := d
	r.docs[d.ID] = &dd
	return d.ID
}

func (r *memDocRepo) Create(_ context.Context, d *model.Document) error {
	d.ID = uuid.New()
	if d.Status == "" {
		d.Status = model.DocPending
	}
	d.CreatedAt = time.Now()
	dd := *d
	r.docs[d.ID] = &dd
	return nil
}

func (r *memDocRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	dd := *d
	return &dd, nil
}

func (r *memDocRepo) Update(_ context.Context, d *model.Document) error {
	if _, ok := r.docs[d.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	dd := *d
	r.docs[d.ID] = &dd
	return nil
}

func (r *memDocRepo) List(_ context.Context, kind string, page, limit int) ([]model.Document, int64, error) {
	var out []model.Document
	for _, d := range r.docs {
		if kind != "" && d.Kind != kind {
			continue
		}
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *memDocRepo) ListStuckPending(_ context.Context, olderThan time.Time, limit int) ([]model.Document, error) {
	var out []model.Document
	for _, d := range r.docs {
		if d.Status == model.DocPending && d.CreatedAt.Before(olderThan) {
			out = append(out, *d)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

var _ repository.DocumentRepository = (*memDocRepo)(nil)

// ── CreateContract ───────────────────────────────────────────────────────────

func TestCreateContract(t *testing.T) {
	docRepo := newMemDocRepo()
	clientRepo := newMemClientRepo()
	clientID := clientRepo.seed(model.Client{
		Name:   "Sitio Boa Vista",
		Email:  strPtr("contato@sitioboavista.example"),
		Active: true,
	})
	svc := service.NewDocumentService(docRepo, clientRepo, nil)

	resp, err := svc.CreateContract(context.Background(), dto.CreateContractRequest{
		ClientID: clientID.String(),
		Title:    "Landscaping supply contract",
		Body:     "The nursery commits to deliver 200 seedlings by the end of the month.",
	})
	require.NoError(t, err)

	assert.Equal(t, model.DocContract, resp.Kind)
	assert.Equal(t, model.DocPending, resp.Status)
	// EmailTo falls back to the client's registered address
	require.NotNil(t, resp.EmailTo)
	assert.Equal(t, "contato@sitioboavista.example", *resp.EmailTo)
}

func TestCreateContractUnknownClient(t *testing.T) {
	svc := service.NewDocumentService(newMemDocRepo(), newMemClientRepo(), nil)

	_, err := svc.CreateContract(context.Background(), dto.CreateContractRequest{
		ClientID: uuid.NewString(),
		Title:    "Orphan contract",
		Body:     "This should never be stored anywhere.",
	})
	assert.ErrorIs(t, err, service.ErrClientNotFound)
}

// ── Retry ────────────────────────────────────────────────────────────────────

func TestRetryOnlyFailedDocuments(t *testing.T) {
	docRepo := newMemDocRepo()
	pendingID := docRepo.seed(model.Document{
		Kind: model.DocReceipt, Title: "Receipt", Status: model.DocPending,
	})
	generatedID := docRepo.seed(model.Document{
		Kind: model.DocContract, Title: "Done", Status: model.DocGenerated,
	})
	svc := service.NewDocumentService(docRepo, newMemClientRepo(), nil)

	assert.ErrorContains(t, svc.Retry(context.Background(), pendingID), "only failed")
	assert.ErrorContains(t, svc.Retry(context.Background(), generatedID), "only failed")
}

func TestRetryResetsFailureBookkeeping(t *testing.T) {
	docRepo := newMemDocRepo()
	id := docRepo.seed(model.Document{
		Kind:      model.DocContract,
		Title:     "Flaky contract",
		Status:    model.DocFailed,
		LastError: strPtr("pdf render failed"),
		Attempts:  3,
	})
	svc := service.NewDocumentService(docRepo, newMemClientRepo(), nil)

	// No dispatcher wired: the reset still happens, the enqueue reports
	// the missing worker.
	err := svc.Retry(context.Background(), id)
	assert.ErrorContains(t, err, "worker is not running")

	stored := docRepo.docs[id]
	assert.Equal(t, model.DocPending, stored.Status)
	assert.Nil(t, stored.LastError)
	assert.Zero(t, stored.Attempts)
}

// ── PDFPath ──────────────────────────────────────────────────────────────────

func TestPDFPathRequiresGeneratedStatus(t *testing.T) {
	docRepo := newMemDocRepo()
	pendingID := docRepo.seed(model.Document{
		Kind: model.DocReceipt, Title: "Still rendering", Status: model.DocPending,
	})
	path := "/var/pastel/docs/abc.pdf"
	readyID := docRepo.seed(model.Document{
		Kind: model.DocReceipt, Title: "Ready", Status: model.DocGenerated, PDFPath: &path,
	})
	svc := service.NewDocumentService(docRepo, newMemClientRepo(), nil)

	_, err := svc.PDFPath(context.Background(), pendingID)
	assert.ErrorContains(t, err, "not been generated")

	got, err := svc.PDFPath(context.Background(), readyID)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

// ── Stuck-pending sweep input ────────────────────────────────────────────────

func TestListStuckPendingCutoff(t *testing.T) {
	docRepo := newMemDocRepo()
	oldID := docRepo.seed(model.Document{
		Kind: model.DocReceipt, Title: "Lost enqueue", Status: model.DocPending,
		CreatedAt: time.Now().Add(-10 * time.Minute),
	})
	docRepo.seed(model.Document{
		Kind: model.DocReceipt, Title: "Fresh", Status: model.DocPending,
		CreatedAt: time.Now(),
	})
	docRepo.seed(model.Document{
		Kind: model.DocReceipt, Title: "Already done", Status: model.DocGenerated,
		CreatedAt: time.Now().Add(-10 * time.Minute),
	})

	stuck, err := docRepo.ListStuckPending(context.Background(), time.Now().Add(-2*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, stuck, 1)
	assert.Equal(t, oldID, stuck[0].ID)
}
