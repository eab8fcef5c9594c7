// controllers/report.go
package controllers

import (
	"net/http"

	"designhub-backend/services"

	"github.com/gin-gonic/gin"
)

// ReportController handles all reporting functions
type ReportController struct {
	quotes *services.QuoteService
}

func NewReportController(quotes *services.QuoteService) *ReportController {
	return &ReportController{quotes: quotes}
}

// GetReportAnalytics returns accepted-quote revenue with period growth
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	analytics, err := rc.quotes.Report(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
