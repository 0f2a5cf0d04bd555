package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leoclub/leofest-api/internal/service"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
	"github.com/leoclub/leofest-api/pkg/response"
)

// LeaderboardHandler wires HTTP endpoints to the leaderboard service.
type LeaderboardHandler struct {
	service *service.LeaderboardService
	metrics *service.MetricsService
}

// NewLeaderboardHandler creates a new handler.
func NewLeaderboardHandler(svc *service.LeaderboardService, metrics *service.MetricsService) *LeaderboardHandler {
	return &LeaderboardHandler{service: svc, metrics: metrics}
}

// UpsertScore godoc
// @Summary Set a participant's score
// @Description Assigned coordinators and admins set or overwrite a score
// @Tags Leaderboard
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param payload body object true "Student id and score"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/scores [put]
func (h *LeaderboardHandler) UpsertScore(c *gin.Context) {
	var payload struct {
		StudentID string  `json:"studentId" binding:"required"`
		Score     float64 `json:"score"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid score payload"))
		return
	}

	entry, err := h.service.UpsertScore(c.Request.Context(), actorFromContext(c), service.UpsertScoreRequest{
		EventID:   c.Param("id"),
		StudentID: payload.StudentID,
		Score:     payload.Score,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordScoreWrite()
	response.JSON(c, http.StatusOK, entry, nil)
}

// Leaderboard godoc
// @Summary Get an event's leaderboard
// @Description Entries ranked by score descending, ties by first entry
// @Tags Leaderboard
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/leaderboard [get]
func (h *LeaderboardHandler) Leaderboard(c *gin.Context) {
	entries, err := h.service.Leaderboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries, nil)
}

// Complete godoc
// @Summary Complete an event
// @Description Moves the event to completed and freezes winners; top three by score unless winners are named
// @Tags Leaderboard
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param payload body object false "Optional explicit winner ids"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events/{id}/complete [post]
func (h *LeaderboardHandler) Complete(c *gin.Context) {
	var payload struct {
		Winners []string `json:"winners"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid completion payload"))
			return
		}
	}

	winners, err := h.service.Complete(c.Request.Context(), actorFromContext(c), service.CompleteEventRequest{
		EventID: c.Param("id"),
		Winners: payload.Winners,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordCompletion()
	response.JSON(c, http.StatusOK, winners, nil)
}

// Winners godoc
// @Summary Get an event's winners
// @Tags Leaderboard
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/winners [get]
func (h *LeaderboardHandler) Winners(c *gin.Context) {
	winners, err := h.service.Winners(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, winners, nil)
}

// ScoreAuthors godoc
// @Summary List who scored an event
// @Tags Leaderboard
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /events/{id}/score-authors [get]
func (h *LeaderboardHandler) ScoreAuthors(c *gin.Context) {
	authors, err := h.service.ScoreAuthors(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, authors, nil)
}
