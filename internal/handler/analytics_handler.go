package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leoclub/leofest-api/internal/service"
	"github.com/leoclub/leofest-api/pkg/response"
)

// AnalyticsHandler exposes the Redis-backed visit counters.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler creates a new handler.
func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc}
}

// Visits godoc
// @Summary Site visit summary
// @Description Total and per-day visit counts; empty when no Redis backend is configured
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /analytics/visits [get]
func (h *AnalyticsHandler) Visits(c *gin.Context) {
	summary, err := h.service.VisitSummary(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil)
}
