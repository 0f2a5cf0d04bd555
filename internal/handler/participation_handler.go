package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leoclub/leofest-api/internal/service"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
	"github.com/leoclub/leofest-api/pkg/response"
)

// ParticipationHandler wires HTTP endpoints to the participation service.
type ParticipationHandler struct {
	service *service.ParticipationService
	metrics *service.MetricsService
}

// NewParticipationHandler creates a new handler.
func NewParticipationHandler(svc *service.ParticipationService, metrics *service.MetricsService) *ParticipationHandler {
	return &ParticipationHandler{service: svc, metrics: metrics}
}

// Register godoc
// @Summary Register for an event
// @Description Students register themselves; a repeat registration returns the original record
// @Tags Participations
// @Accept json
// @Produce json
// @Param payload body service.RegisterParticipationRequest true "Registration payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /participations [post]
func (h *ParticipationHandler) Register(c *gin.Context) {
	var req service.RegisterParticipationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	result, err := h.service.Register(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Created {
		h.metrics.RecordRegistration(string(result.Participation.PaymentType))
		response.Created(c, result.Participation)
		return
	}
	response.JSON(c, http.StatusOK, result.Participation, nil)
}

// Withdraw godoc
// @Summary Withdraw a registration
// @Description Students remove their own registration before the event completes
// @Tags Participations
// @Param id path string true "Participation id"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /participations/{id} [delete]
func (h *ParticipationHandler) Withdraw(c *gin.Context) {
	if err := h.service.Withdraw(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SetArrived godoc
// @Summary Mark arrival
// @Description Assigned coordinators and admins flag whether the participant showed up
// @Tags Participations
// @Accept json
// @Produce json
// @Param id path string true "Participation id"
// @Param payload body object true "Arrived flag"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /participations/{id}/arrived [patch]
func (h *ParticipationHandler) SetArrived(c *gin.Context) {
	var payload struct {
		Arrived *bool `json:"arrived" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "arrived flag required"))
		return
	}

	participation, err := h.service.SetArrived(c.Request.Context(), actorFromContext(c), c.Param("id"), *payload.Arrived)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, participation, nil)
}

// SetPaymentStatus godoc
// @Summary Record a payment verdict
// @Tags Participations
// @Accept json
// @Produce json
// @Param id path string true "Participation id"
// @Param payload body object true "Payment status"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /participations/{id}/payment [patch]
func (h *ParticipationHandler) SetPaymentStatus(c *gin.Context) {
	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payment status required"))
		return
	}

	participation, err := h.service.SetPaymentStatus(c.Request.Context(), actorFromContext(c), c.Param("id"), payload.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, participation, nil)
}

// ListByEvent godoc
// @Summary List an event's registrations
// @Tags Participations
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /events/{id}/participations [get]
func (h *ParticipationHandler) ListByEvent(c *gin.Context) {
	list, err := h.service.ListByEvent(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list, nil)
}

// ListMine godoc
// @Summary List my registrations
// @Tags Participations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /participations/me [get]
func (h *ParticipationHandler) ListMine(c *gin.Context) {
	list, err := h.service.ListMine(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list, nil)
}
