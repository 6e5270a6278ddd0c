package handler

import (
	"net/http"

	"github.com/spetoki/pastelFacil-sub000/internal/apierror"
	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/middleware"
	"github.com/spetoki/pastelFacil-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CashHandler struct{ svc service.CashService }

func NewCashHandler(svc service.CashService) *CashHandler { return &CashHandler{svc: svc} }

// Register godoc
// @Summary Record an expense or manual cash entry
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegisterCashTransactionRequest true "Ledger entry"
// @Success 201 {object} dto.CashTransactionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cash/transactions [post]
func (h *CashHandler) Register(c *gin.Context) {
	var req dto.RegisterCashTransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Register(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListCurrentShift returns the open shift's expenses and manual entries.
func (h *CashHandler) ListCurrentShift(c *gin.Context) {
	resp, err := h.svc.ListCurrentShift(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("listing cash transactions"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
