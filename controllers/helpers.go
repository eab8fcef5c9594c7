package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"designhub-backend/models"
	"designhub-backend/quote"
	"designhub-backend/services"
	"designhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentActor reads the caller set by utils.AuthMiddleware. It writes the
// error response itself when the context is incomplete.
func currentActor(c *gin.Context) (services.Actor, bool) {
	userID := c.GetString(utils.ContextUserID)
	if userID == "" {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return services.Actor{}, false
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID format")
		return services.Actor{}, false
	}
	role := models.Role(c.GetString(utils.ContextRole))
	if !role.Valid() {
		utils.RespondWithError(c, http.StatusForbidden, "Unknown role")
		return services.Actor{}, false
	}
	return services.Actor{ID: id, Role: role}, true
}

func paramID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

func paramIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item index")
		return 0, false
	}
	return index, true
}

// respondError maps service and domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var perr *quote.PersistenceError
	switch {
	case errors.Is(err, quote.ErrValidation):
		utils.RespondWithDetails(c, http.StatusBadRequest, "Validation failed", quote.ValidationMessages(err))
	case errors.Is(err, services.ErrForbidden):
		utils.RespondWithError(c, http.StatusForbidden, "You do not have access to this quote")
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, quote.ErrQuoteExpired),
		errors.Is(err, quote.ErrInvalidTransition),
		errors.Is(err, quote.ErrNotEditable):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.As(err, &perr):
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal error")
	}
}
