package handler

import (
	"errors"
	"net/http"

	"github.com/spetoki/pastelFacil-sub000/internal/apierror"
	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/middleware"
	"github.com/spetoki/pastelFacil-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ShiftHandler struct{ svc service.ShiftService }

func NewShiftHandler(svc service.ShiftService) *ShiftHandler { return &ShiftHandler{svc: svc} }

// Report godoc
// @Summary Live reconciliation view of the open shift
// @Tags shift
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ShiftReportResponse
// @Router /v1/shift/report [get]
func (h *ShiftHandler) Report(c *gin.Context) {
	resp, err := h.svc.Report(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("building shift report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Close godoc
// @Summary Confirm the cash conference and close the shift
// @Tags shift
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseShiftRequest true "Counted cash and notes"
// @Success 201 {object} dto.ClosureResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError "Another register already closed this shift"
// @Router /v1/shift/close [post]
func (h *ShiftHandler) Close(c *gin.Context) {
	var req dto.CloseShiftRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Close(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrShiftConflict) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}
