package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leoclub/leofest-api/internal/service"
	"github.com/leoclub/leofest-api/pkg/response"
)

// AssignmentHandler wires HTTP endpoints to the coordinator assignment service.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler creates a new handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// Join godoc
// @Summary Join an event as coordinator
// @Description Assigns the caller to the event, within the active event limit
// @Tags Assignments
// @Produce json
// @Param id path string true "Event id"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events/{id}/coordinators [post]
func (h *AssignmentHandler) Join(c *gin.Context) {
	assignment, err := h.service.Join(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, assignment)
}

// Leave godoc
// @Summary Leave an event
// @Description Removes the caller's assignment; leaving an unjoined event succeeds silently
// @Tags Assignments
// @Param id path string true "Event id"
// @Success 204 {object} response.Envelope
// @Router /events/{id}/coordinators [delete]
func (h *AssignmentHandler) Leave(c *gin.Context) {
	if err := h.service.Leave(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// MyEvents godoc
// @Summary List my assignments
// @Description The caller's full event history, including completed and closed events
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /coordinators/me/events [get]
func (h *AssignmentHandler) MyEvents(c *gin.Context) {
	list, err := h.service.MyEvents(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list, nil)
}

// EventCoordinators godoc
// @Summary List an event's coordinators
// @Tags Assignments
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/coordinators [get]
func (h *AssignmentHandler) EventCoordinators(c *gin.Context) {
	list, err := h.service.EventCoordinators(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list, nil)
}
