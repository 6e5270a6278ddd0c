package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/apierror"
	"github.com/spetoki/pastelFacil-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportsHandler serves the closure history. The whole group is gated
// behind the supervisor PIN in the router.
type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// ListClosures godoc
// @Summary Paginated closure history
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.ClosureListResponse
// @Router /v1/reports/closures [get]
func (h *ReportsHandler) ListClosures(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	resp, err := h.svc.ListClosures(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("listing closures"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreditSales godoc
// @Summary Day-scoped fiado report: credit sales and debt payments
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.CreditReportResponse
// @Router /v1/reports/credit-sales [get]
func (h *ReportsHandler) CreditSales(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid date, expected YYYY-MM-DD"))
			return
		}
		day = parsed
	}
	resp, err := h.svc.CreditSales(c.Request.Context(), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("building credit report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) GetClosure(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ID"))
		return
	}
	resp, err := h.svc.GetClosure(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
