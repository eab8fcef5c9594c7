package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationLog records one SMS/WhatsApp attempt about a quote.
type NotificationLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuoteID      uuid.UUID `gorm:"type:uuid;index;not null" json:"quoteId"`
	RecipientID  uuid.UUID `gorm:"type:uuid;index;not null" json:"recipientId"`
	Event        string    `gorm:"type:varchar(20)" json:"event"` // sent, accepted, rejected
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"errorMessage,omitempty"`
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	SentAt       time.Time `json:"sentAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	n.ID = uuid.New()
	return
}

// All lists every model the schema is migrated from.
func All() []any {
	return []any{
		&User{},
		&Project{},
		&Material{},
		&Quote{},
		&QuoteItem{},
		&NotificationLog{},
	}
}
