// services/notification_service.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"designhub-backend/models"
	"designhub-backend/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// Notifier tells the other party that a quote changed hands. Delivery
// problems are logged, never returned: the transition already happened.
type Notifier interface {
	QuoteSent(ctx context.Context, q *models.Quote, customer *models.User)
	QuoteResponded(ctx context.Context, q *models.Quote, designer *models.User)
}

// NoopNotifier is used when no messaging provider is configured.
type NoopNotifier struct{}

func (NoopNotifier) QuoteSent(context.Context, *models.Quote, *models.User)      {}
func (NoopNotifier) QuoteResponded(context.Context, *models.Quote, *models.User) {}

type messageSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSettings holds the sender identities.
type TwilioSettings struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

// TwilioNotifier sends WhatsApp messages to E.164 numbers and SMS
// otherwise, logging every attempt.
type TwilioNotifier struct {
	db       *gorm.DB
	sender   messageSender
	settings TwilioSettings
}

func NewTwilioNotifier(db *gorm.DB, settings TwilioSettings) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: settings.AccountSID,
		Password: settings.AuthToken,
	})
	return &TwilioNotifier{db: db, sender: client.Api, settings: settings}
}

func (n *TwilioNotifier) QuoteSent(ctx context.Context, q *models.Quote, customer *models.User) {
	validity := "until further notice"
	if q.ValidUntil != nil {
		validity = "until " + q.ValidUntil.Format("02 Jan 2006")
	}
	message := fmt.Sprintf("Hi %s, you have a new quote %s (%s) for Rs. %s, valid %s.",
		customer.Name, q.QuoteNumber, q.Title, q.TotalAmount().StringFixed(models.MoneyPlaces), validity)
	n.send(ctx, q, customer, string(models.QuoteSent), message)
}

func (n *TwilioNotifier) QuoteResponded(ctx context.Context, q *models.Quote, designer *models.User) {
	message := fmt.Sprintf("Hi %s, quote %s (%s) was %s by the customer: %s",
		designer.Name, q.QuoteNumber, q.Title, q.Status, q.CustomerFeedback)
	n.send(ctx, q, designer, string(q.Status), message)
}

func (n *TwilioNotifier) send(ctx context.Context, q *models.Quote, to *models.User, event, message string) {
	if !utils.ValidatePhone(to.Phone) {
		slog.WarnContext(ctx, "skipping notification, no valid phone", "quote", q.QuoteNumber, "user", to.ID)
		return
	}

	channel := "sms"
	recipient := utils.CleanPhone(to.Phone)
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(message)
	if utils.IsE164(to.Phone) && n.settings.WhatsAppNumber != "" {
		channel = "whatsapp"
		params.SetTo("whatsapp:" + recipient)
		params.SetFrom("whatsapp:" + n.settings.WhatsAppNumber)
	} else {
		params.SetTo(recipient)
		params.SetFrom(n.settings.PhoneNumber)
	}

	status := "sent"
	errorMsg := ""
	resp, err := n.sender.CreateMessage(params)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send notification", "quote", q.QuoteNumber, "channel", channel, "error", err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp != nil && resp.Sid != nil {
		slog.InfoContext(ctx, "notification sent", "quote", q.QuoteNumber, "channel", channel, "sid", *resp.Sid)
	}

	entry := models.NotificationLog{
		QuoteID:      q.ID,
		RecipientID:  to.ID,
		Event:        event,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}
	if err := n.db.WithContext(ctx).Create(&entry).Error; err != nil {
		slog.ErrorContext(ctx, "failed to log notification", "quote", q.QuoteNumber, "error", err)
	}
}
