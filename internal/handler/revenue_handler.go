package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leoclub/leofest-api/internal/service"
	"github.com/leoclub/leofest-api/pkg/response"
)

// RevenueHandler exposes the derived collection summary.
type RevenueHandler struct {
	service *service.RevenueService
}

// NewRevenueHandler creates a new handler.
func NewRevenueHandler(svc *service.RevenueService) *RevenueHandler {
	return &RevenueHandler{service: svc}
}

// Summary godoc
// @Summary Festival collection summary
// @Description Per-event registration counts and amounts plus the grand total, recomputed on every read
// @Tags Revenue
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /payments/summary [get]
func (h *RevenueHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil)
}
