package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
	"github.com/leoclub/leofest-api/pkg/export"
)

// Report is a rendered downloadable document.
type Report struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService renders per-event participation reports and the festival
// revenue report as CSV or PDF downloads.
type ReportService struct {
	events         store.EventStore
	participations store.ParticipationStore
	revenue        *RevenueService
	staff          *AssignmentService
	exporters      map[string]export.Exporter
	logger         *zap.Logger
}

// NewReportService constructs a ReportService with CSV and PDF exporters.
func NewReportService(events store.EventStore, participations store.ParticipationStore, revenue *RevenueService, staff *AssignmentService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		events:         events,
		participations: participations,
		revenue:        revenue,
		staff:          staff,
		exporters: map[string]export.Exporter{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// EventReport renders the registration sheet of one event. Admins and
// assigned coordinators only.
func (s *ReportService) EventReport(ctx context.Context, actor models.Actor, eventID, format string) (*Report, error) {
	exporter, err := s.exporter(format)
	if err != nil {
		return nil, err
	}
	if err := s.staff.AuthorizeEventStaff(ctx, actor, eventID); err != nil {
		return nil, err
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, storeFailure(err, "load event")
	}
	participations, err := s.participations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeFailure(err, "list participations")
	}

	data := export.Dataset{
		Headers: []string{"Name", "Leo ID", "Roll No", "Payment", "Payment Status", "Arrived", "Registered At"},
		Rows:    make([]map[string]string, 0, len(participations)),
	}
	for _, p := range participations {
		arrived := "no"
		if p.Arrived {
			arrived = "yes"
		}
		data.Rows = append(data.Rows, map[string]string{
			"Name":           p.Name,
			"Leo ID":         p.LeoID,
			"Roll No":        p.RollNo,
			"Payment":        string(p.PaymentType),
			"Payment Status": p.PaymentStatus,
			"Arrived":        arrived,
			"Registered At":  p.RegisteredAt.Format("2006-01-02 15:04"),
		})
	}

	content, err := exporter.Render(data, event.Title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	return &Report{
		FileName:    fmt.Sprintf("event-%s.%s", eventID, exporter.Extension()),
		ContentType: exporter.ContentType(),
		Content:     content,
	}, nil
}

// RevenueReport renders the collection summary across events. Admin only.
func (s *ReportService) RevenueReport(ctx context.Context, actor models.Actor, format string) (*Report, error) {
	exporter, err := s.exporter(format)
	if err != nil {
		return nil, err
	}
	summary, err := s.revenue.Summary(ctx, actor)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Event", "Registrations", "Amount"},
		Rows:    make([]map[string]string, 0, len(summary.ByEvent)+1),
	}
	rows := make([]models.EventRevenue, 0, len(summary.ByEvent))
	for _, r := range summary.ByEvent {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Title < rows[j].Title })
	for _, r := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"Event":         r.Title,
			"Registrations": strconv.Itoa(r.Count),
			"Amount":        strconv.Itoa(r.Amount),
		})
	}
	data.Rows = append(data.Rows, map[string]string{
		"Event":         "TOTAL",
		"Registrations": "",
		"Amount":        strconv.Itoa(summary.Total),
	})

	content, err := exporter.Render(data, "Revenue Summary")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	return &Report{
		FileName:    "revenue." + exporter.Extension(),
		ContentType: exporter.ContentType(),
		Content:     content,
	}, nil
}

func (s *ReportService) exporter(format string) (export.Exporter, error) {
	if format == "" {
		format = "csv"
	}
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
	return exporter, nil
}
