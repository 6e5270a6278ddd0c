package handler

import (
	"net/http"
	"strconv"

	"github.com/spetoki/pastelFacil-sub000/internal/apierror"
	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DocumentsHandler struct{ svc service.DocumentService }

func NewDocumentsHandler(svc service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{svc: svc}
}

// CreateContract godoc
// @Summary Create a purchase contract and queue its PDF
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateContractRequest true "Contract data"
// @Success 202 {object} dto.DocumentResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/documents/contracts [post]
func (h *DocumentsHandler) CreateContract(c *gin.Context) {
	var req dto.CreateContractRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateContract(c.Request.Context(), req)
	if err != nil {
		if err == service.ErrClientNotFound {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	// 202: the PDF is generated asynchronously
	c.JSON(http.StatusAccepted, resp)
}

func (h *DocumentsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ID"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	kind := c.Query("kind")
	resp, err := h.svc.List(c.Request.Context(), kind, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("listing documents"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Retry re-enqueues a failed document for generation.
func (h *DocumentsHandler) Retry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ID"))
		return
	}
	if err := h.svc.Retry(c.Request.Context(), id); err != nil {
		if err == service.ErrDocumentNotFound {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusAccepted)
}

// PDF streams the generated PDF file.
func (h *DocumentsHandler) PDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ID"))
		return
	}
	path, err := h.svc.PDFPath(c.Request.Context(), id)
	if err != nil {
		if err == service.ErrDocumentNotFound {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}
