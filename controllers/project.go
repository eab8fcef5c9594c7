// controllers/project.go
package controllers

import (
	"errors"
	"net/http"

	"designhub-backend/models"
	"designhub-backend/services"
	"designhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateProjectInput defines the expected JSON structure for a customer brief
type CreateProjectInput struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	City        string          `json:"city"`
	Budget      decimal.Decimal `json:"budget"`
}

// AssignProjectInput names the designer who will quote the project
type AssignProjectInput struct {
	DesignerID uuid.UUID `json:"designerId" binding:"required"`
}

type ProjectController struct {
	db *gorm.DB
}

func NewProjectController(db *gorm.DB) *ProjectController {
	return &ProjectController{db: db}
}

// CreateProject opens a new brief for the calling customer
func (pc *ProjectController) CreateProject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if actor.Role != models.RoleCustomer {
		utils.RespondWithError(c, http.StatusForbidden, "Only customers create projects")
		return
	}

	var input CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Budget.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Budget cannot be negative")
		return
	}

	project := models.Project{
		CustomerID:  actor.ID,
		Title:       input.Title,
		Description: input.Description,
		City:        input.City,
		Budget:      input.Budget,
		Status:      models.ProjectOpen,
	}

	if err := pc.db.WithContext(c.Request.Context()).Create(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProjects lists the caller's projects: customers see their briefs,
// designers the ones assigned to them.
func (pc *ProjectController) GetProjects(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	query := pc.db.WithContext(c.Request.Context())
	switch actor.Role {
	case models.RoleCustomer:
		query = query.Where("customer_id = ?", actor.ID)
	case models.RoleDesigner:
		query = query.Where("designer_id = ?", actor.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve projects")
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (pc *ProjectController) GetProject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}

	project, ok := pc.find(c, projectID)
	if !ok {
		return
	}
	if !canSee(actor, project) {
		utils.RespondWithError(c, http.StatusForbidden, "You do not have access to this project")
		return
	}

	c.JSON(http.StatusOK, project)
}

// AssignProject hands an open project to a designer. Only the project's
// customer or an admin may do so.
func (pc *ProjectController) AssignProject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}

	var input AssignProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	project, ok := pc.find(c, projectID)
	if !ok {
		return
	}
	if actor.Role != models.RoleAdmin && project.CustomerID != actor.ID {
		utils.RespondWithError(c, http.StatusForbidden, "You do not have access to this project")
		return
	}
	if project.Status == models.ProjectClosed {
		utils.RespondWithError(c, http.StatusConflict, "Project is closed")
		return
	}

	var designer models.User
	if err := pc.db.WithContext(c.Request.Context()).
		Where("id = ? AND role = ?", input.DesignerID, models.RoleDesigner).
		First(&designer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Designer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	project.DesignerID = &designer.ID
	project.Status = models.ProjectAssigned
	if err := pc.db.WithContext(c.Request.Context()).Save(project).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to assign project")
		return
	}

	c.JSON(http.StatusOK, project)
}

func (pc *ProjectController) find(c *gin.Context, projectID uuid.UUID) (*models.Project, bool) {
	var project models.Project
	if err := pc.db.WithContext(c.Request.Context()).Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &project, true
}

func canSee(actor services.Actor, p *models.Project) bool {
	return actor.Role == models.RoleAdmin || p.CustomerID == actor.ID || p.AssignedTo(actor.ID)
}
