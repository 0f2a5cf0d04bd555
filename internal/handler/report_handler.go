package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/leoclub/leofest-api/internal/service"
	"github.com/leoclub/leofest-api/pkg/response"
)

// ReportHandler serves CSV and PDF downloads.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// EventReport godoc
// @Summary Download an event's registration sheet
// @Tags Reports
// @Produce octet-stream
// @Param id path string true "Event id"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/report [get]
func (h *ReportHandler) EventReport(c *gin.Context) {
	report, err := h.service.EventReport(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	serveReport(c, report)
}

// RevenueReport godoc
// @Summary Download the collection summary
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /payments/report [get]
func (h *ReportHandler) RevenueReport(c *gin.Context) {
	report, err := h.service.RevenueReport(c.Request.Context(), actorFromContext(c), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	serveReport(c, report)
}

func serveReport(c *gin.Context, report *service.Report) {
	c.Header("Content-Disposition", `attachment; filename="`+report.FileName+`"`)
	c.Data(200, report.ContentType, report.Content)
}
