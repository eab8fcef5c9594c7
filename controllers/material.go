// controllers/material.go
package controllers

import (
	"errors"
	"net/http"

	"designhub-backend/models"
	"designhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateMaterialInput defines the expected JSON structure for creating a material
type CreateMaterialInput struct {
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description"`
	Unit          string           `json:"unit"`
	Category      string           `json:"category"`
	BasePrice     decimal.Decimal  `json:"basePrice" binding:"required"`
	DiscountPrice *decimal.Decimal `json:"discountPrice"`
	IsDiscounted  bool             `json:"isDiscounted"`
}

// UpdateMaterialInput defines the expected JSON structure for updating a material
type UpdateMaterialInput struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Unit          *string          `json:"unit"`
	Category      *string          `json:"category"`
	BasePrice     *decimal.Decimal `json:"basePrice"`
	DiscountPrice *decimal.Decimal `json:"discountPrice"`
	IsDiscounted  *bool            `json:"isDiscounted"`
	IsActive      *bool            `json:"isActive"`
}

// MaterialController manages the designer's price catalog.
type MaterialController struct {
	db *gorm.DB
}

func NewMaterialController(db *gorm.DB) *MaterialController {
	return &MaterialController{db: db}
}

func (mc *MaterialController) designer(c *gin.Context) (uuid.UUID, bool) {
	actor, ok := currentActor(c)
	if !ok {
		return uuid.Nil, false
	}
	if actor.Role != models.RoleDesigner {
		utils.RespondWithError(c, http.StatusForbidden, "Only designers manage materials")
		return uuid.Nil, false
	}
	return actor.ID, true
}

// CreateMaterial adds a material to the designer's catalog
func (mc *MaterialController) CreateMaterial(c *gin.Context) {
	designerID, ok := mc.designer(c)
	if !ok {
		return
	}

	var input CreateMaterialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	material := models.Material{
		DesignerID:    designerID,
		Name:          input.Name,
		Description:   input.Description,
		Unit:          input.Unit,
		Category:      input.Category,
		BasePrice:     input.BasePrice,
		DiscountPrice: input.BasePrice,
		IsDiscounted:  input.IsDiscounted,
		IsActive:      true,
	}
	if input.DiscountPrice != nil {
		material.DiscountPrice = *input.DiscountPrice
	}
	if msg := checkPrices(&material); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	if err := mc.db.WithContext(c.Request.Context()).Create(&material).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create material")
		return
	}

	c.JSON(http.StatusCreated, material)
}

// GetMaterials lists the catalog; ?active=true limits it to selectable entries
func (mc *MaterialController) GetMaterials(c *gin.Context) {
	designerID, ok := mc.designer(c)
	if !ok {
		return
	}

	query := mc.db.WithContext(c.Request.Context()).Where("designer_id = ?", designerID)
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var materials []models.Material
	if err := query.Order("name").Find(&materials).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve materials")
		return
	}

	c.JSON(http.StatusOK, materials)
}

func (mc *MaterialController) GetMaterial(c *gin.Context) {
	designerID, ok := mc.designer(c)
	if !ok {
		return
	}
	materialID, ok := paramID(c, "id", "material")
	if !ok {
		return
	}

	material, ok := mc.find(c, designerID, materialID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, material)
}

// UpdateMaterial changes a catalog entry. Quotes already priced from it keep
// their own copy of the price.
func (mc *MaterialController) UpdateMaterial(c *gin.Context) {
	designerID, ok := mc.designer(c)
	if !ok {
		return
	}
	materialID, ok := paramID(c, "id", "material")
	if !ok {
		return
	}

	var input UpdateMaterialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	material, ok := mc.find(c, designerID, materialID)
	if !ok {
		return
	}

	if input.Name != nil {
		material.Name = *input.Name
	}
	if input.Description != nil {
		material.Description = *input.Description
	}
	if input.Unit != nil {
		material.Unit = *input.Unit
	}
	if input.Category != nil {
		material.Category = *input.Category
	}
	if input.BasePrice != nil {
		material.BasePrice = *input.BasePrice
	}
	if input.DiscountPrice != nil {
		material.DiscountPrice = *input.DiscountPrice
	}
	if input.IsDiscounted != nil {
		material.IsDiscounted = *input.IsDiscounted
	}
	if input.IsActive != nil {
		material.IsActive = *input.IsActive
	}
	if msg := checkPrices(material); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	if err := mc.db.WithContext(c.Request.Context()).Save(material).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update material")
		return
	}

	c.JSON(http.StatusOK, material)
}

// DeleteMaterial soft deletes a material
func (mc *MaterialController) DeleteMaterial(c *gin.Context) {
	designerID, ok := mc.designer(c)
	if !ok {
		return
	}
	materialID, ok := paramID(c, "id", "material")
	if !ok {
		return
	}

	result := mc.db.WithContext(c.Request.Context()).
		Where("designer_id = ? AND id = ?", designerID, materialID).
		Delete(&models.Material{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete material")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Material not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Material deleted successfully"})
}

func (mc *MaterialController) find(c *gin.Context, designerID, materialID uuid.UUID) (*models.Material, bool) {
	var material models.Material
	if err := mc.db.WithContext(c.Request.Context()).
		Where("designer_id = ? AND id = ?", designerID, materialID).
		First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Material not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &material, true
}

// checkPrices rounds both prices to paise and reports the first problem.
func checkPrices(m *models.Material) string {
	m.BasePrice = models.RoundMoney(m.BasePrice)
	m.DiscountPrice = models.RoundMoney(m.DiscountPrice)
	switch {
	case m.BasePrice.IsNegative(), m.DiscountPrice.IsNegative():
		return "Prices cannot be negative"
	case m.IsDiscounted && m.DiscountPrice.GreaterThan(m.BasePrice):
		return "Discount price cannot exceed the base price"
	}
	return ""
}
