package controllers

import (
	"net/http"

	"designhub-backend/services"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	quotes *services.QuoteService
}

func NewDashboardController(quotes *services.QuoteService) *DashboardController {
	return &DashboardController{quotes: quotes}
}

// GetDashboardOverview returns the designer's quote pipeline: counts and
// value per status, acceptance rate and quotes about to lapse.
func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	summary, err := dc.quotes.Summary(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
