package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leoclub/leofest-api/internal/models"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
)

func newReportService(env *testEnv) *ReportService {
	return NewReportService(env.stores.Events, env.stores.Participations, env.revenue, env.assignments, zap.NewNop())
}

func TestEventReportCSV(t *testing.T) {
	env := newTestEnv(t)
	reports := newReportService(env)
	ctx := context.Background()

	event := env.newEvent(t, "Quiz", 10)
	student := env.newStudent(t, "s1@leofest.test")
	env.register(t, student, event.ID)

	report, err := reports.EventReport(ctx, env.admin, event.ID, "csv")
	require.NoError(t, err)

	assert.Equal(t, "event-"+event.ID+".csv", report.FileName)
	body := string(report.Content)
	assert.True(t, strings.HasPrefix(body, "Name,Leo ID,Roll No,Payment"))
	assert.Contains(t, body, "pay_via_cash")
}

func TestEventReportPDF(t *testing.T) {
	env := newTestEnv(t)
	reports := newReportService(env)

	event := env.newEvent(t, "Quiz", 10)

	report, err := reports.EventReport(context.Background(), env.admin, event.ID, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.True(t, strings.HasPrefix(string(report.Content), "%PDF"))
}

func TestEventReportUnknownFormat(t *testing.T) {
	env := newTestEnv(t)
	reports := newReportService(env)
	event := env.newEvent(t, "Quiz", 10)

	_, err := reports.EventReport(context.Background(), env.admin, event.ID, "xlsx")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestEventReportStaffOnly(t *testing.T) {
	env := newTestEnv(t)
	reports := newReportService(env)
	ctx := context.Background()

	event := env.newEvent(t, "Quiz", 10)
	outsider := env.newCoordinator(t, "outsider@leofest.test", models.CoordinatorApproved)

	_, err := reports.EventReport(ctx, outsider, event.ID, "csv")
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestRevenueReportTotals(t *testing.T) {
	env := newTestEnv(t)
	reports := newReportService(env)
	ctx := context.Background()

	quiz := env.newEvent(t, "Quiz", 10)
	student := env.newStudent(t, "s1@leofest.test")
	env.register(t, student, quiz.ID)

	report, err := reports.RevenueReport(ctx, env.admin, "")
	require.NoError(t, err)
	body := string(report.Content)
	assert.Contains(t, body, "Quiz,1,10")
	assert.Contains(t, body, "TOTAL,,10")
}
