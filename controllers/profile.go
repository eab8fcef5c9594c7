package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"designhub-backend/models"
	"designhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateProfileInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

type ProfileController struct {
	db *gorm.DB
}

func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{db: db}
}

// GetProfile returns the caller's profile and records the visit.
func (pc *ProfileController) GetProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var user models.User
	if err := pc.db.WithContext(c.Request.Context()).First(&user, "id = ?", actor.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	now := time.Now()
	pc.db.WithContext(c.Request.Context()).Model(&user).Update("last_login", now)
	user.LastLogin = &now

	c.JSON(http.StatusOK, user)
}

// UpdateProfile creates or updates the caller's profile. The phone number is
// where quote notifications are delivered.
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	user := models.User{ID: actor.ID, Role: actor.Role, IsActive: true}
	err := pc.db.WithContext(c.Request.Context()).First(&user, "id = ?", actor.ID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	user.Name = strings.TrimSpace(input.Name)
	user.Email = strings.ToLower(strings.TrimSpace(input.Email))
	user.Phone = utils.CleanPhone(input.Phone)
	user.Role = actor.Role

	if err := pc.db.WithContext(c.Request.Context()).Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}
