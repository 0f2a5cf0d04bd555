package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/leoclub/leofest-api/internal/service"
)

// Visits counts GET page loads into the analytics counters. Mutations and
// preflight requests are not visits.
func Visits(analytics *service.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if analytics != nil && analytics.Enabled() && c.Request.Method == "GET" {
			analytics.RecordVisit(c.Request.Context())
		}
		c.Next()
	}
}
