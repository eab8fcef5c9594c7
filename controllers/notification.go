// controllers/notification.go
package controllers

import (
	"net/http"

	"designhub-backend/models"
	"designhub-backend/services"
	"designhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NotificationController exposes the delivery history of a quote.
type NotificationController struct {
	db     *gorm.DB
	quotes *services.QuoteService
}

func NewNotificationController(db *gorm.DB, quotes *services.QuoteService) *NotificationController {
	return &NotificationController{db: db, quotes: quotes}
}

// GetQuoteNotifications lists every message sent about a quote the caller
// can see, newest first.
func (nc *NotificationController) GetQuoteNotifications(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "quote")
	if !ok {
		return
	}

	q, err := nc.quotes.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	query := nc.db.WithContext(c.Request.Context()).Where("quote_id = ?", q.ID)
	if actor.Role == models.RoleCustomer {
		query = query.Where("recipient_id = ?", actor.ID)
	}

	var logs []models.NotificationLog
	if err := query.Order("sent_at DESC").Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve notifications")
		return
	}

	c.JSON(http.StatusOK, logs)
}
