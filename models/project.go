package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectOpen     ProjectStatus = "open"
	ProjectAssigned ProjectStatus = "assigned"
	ProjectClosed   ProjectStatus = "closed"
)

// Project is a customer's brief. Quotes are always written against one.
type Project struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"customerId"`
	DesignerID  *uuid.UUID      `gorm:"type:uuid;index" json:"designerId"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	City        string          `json:"city"`
	Budget      decimal.Decimal `gorm:"type:decimal(12,2)" json:"budget"`
	Status      ProjectStatus   `gorm:"type:varchar(20);not null;default:'open'" json:"status"`

	Quotes []Quote `gorm:"foreignKey:ProjectID" json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// AssignedTo reports whether designerID is the project's designer.
func (p *Project) AssignedTo(designerID uuid.UUID) bool {
	return p.DesignerID != nil && *p.DesignerID == designerID
}
