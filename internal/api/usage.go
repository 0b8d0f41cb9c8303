package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "studyforge_go_backend/internal/errors"
	"studyforge_go_backend/internal/usage"
)

// usageReportHandler returns today's AI token consumption and what remains
// of the daily budget.
func usageReportHandler(ledger *usage.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		today, err := ledger.TodayUsage()
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		remaining, err := ledger.Remaining()
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"date":             today.Date,
			"input_tokens":     today.InputTokens,
			"output_tokens":    today.OutputTokens,
			"call_count":       today.CallCount,
			"total_tokens":     today.TotalTokens(),
			"remaining_tokens": remaining,
		})
	}
}
