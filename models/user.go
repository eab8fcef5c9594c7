package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleDesigner Role = "designer"
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleDesigner || r == RoleCustomer || r == RoleAdmin
}

// User mirrors a profile from the hosted auth provider. Credentials never
// reach this service; the ID is the token subject.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email string    `gorm:"uniqueIndex;not null" json:"email"`
	Name  string    `gorm:"not null" json:"name"`
	Phone string    `json:"phone"`
	Role  Role      `gorm:"type:varchar(20);not null" json:"role"`

	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
