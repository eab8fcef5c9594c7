// services/store.go
package services

import (
	"context"
	"errors"
	"time"

	"designhub-backend/models"
	"designhub-backend/quote"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// Store is the persistence contract the quote core needs.
type Store interface {
	quote.StatusWriter

	CreateQuote(ctx context.Context, q *models.Quote) error
	CreateQuoteItems(ctx context.Context, quoteID uuid.UUID, items []models.QuoteItem) error
	FetchQuotesForProject(ctx context.Context, projectID uuid.UUID) ([]models.Quote, error)
	FetchQuotesForDesigner(ctx context.Context, designerID uuid.UUID) ([]models.Quote, error)
	FetchMaterialCatalog(ctx context.Context, designerID uuid.UUID) ([]models.Material, error)

	GetQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	UpdateDraft(ctx context.Context, q *models.Quote) error
	ListSentPastValidity(ctx context.Context, cutoff time.Time) ([]models.Quote, error)

	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	// WithinTx runs fn against a Store bound to one transaction.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// GormStore implements Store on gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) CreateQuote(ctx context.Context, q *models.Quote) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(q).Error
}

func (s *GormStore) CreateQuoteItems(ctx context.Context, quoteID uuid.UUID, items []models.QuoteItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].QuoteID = quoteID
		items[i].Position = i
	}
	return s.db.WithContext(ctx).Create(&items).Error
}

func (s *GormStore) UpdateQuoteStatus(ctx context.Context, quoteID uuid.UUID, update quote.StatusUpdate) error {
	result := s.db.WithContext(ctx).Model(&models.Quote{}).
		Where("id = ?", quoteID).
		Updates(map[string]interface{}{
			"status":            update.Status,
			"customer_feedback": update.CustomerFeedback,
			"sent_at":           update.SentAt,
			"responded_at":      update.RespondedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) FetchQuotesForProject(ctx context.Context, projectID uuid.UUID) ([]models.Quote, error) {
	var quotes []models.Quote
	err := s.withItems(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&quotes).Error
	return quotes, err
}

func (s *GormStore) FetchQuotesForDesigner(ctx context.Context, designerID uuid.UUID) ([]models.Quote, error) {
	var quotes []models.Quote
	err := s.withItems(ctx).
		Where("designer_id = ?", designerID).
		Order("created_at DESC").
		Find(&quotes).Error
	return quotes, err
}

func (s *GormStore) FetchMaterialCatalog(ctx context.Context, designerID uuid.UUID) ([]models.Material, error) {
	var materials []models.Material
	err := s.db.WithContext(ctx).
		Where("designer_id = ? AND is_active = ?", designerID, true).
		Order("name").
		Find(&materials).Error
	return materials, err
}

func (s *GormStore) GetQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var q models.Quote
	if err := s.withItems(ctx).Where("id = ?", id).First(&q).Error; err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

// UpdateDraft rewrites the quote fields and replaces its items. Quotes that
// left draft in the meantime are not touched.
func (s *GormStore) UpdateDraft(ctx context.Context, q *models.Quote) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Quote{}).
			Where("id = ? AND status = ?", q.ID, models.QuoteDraft).
			Updates(map[string]interface{}{
				"title":           q.Title,
				"notes":           q.Notes,
				"terms":           q.Terms,
				"valid_until":     q.ValidUntil,
				"discount_amount": q.DiscountAmount,
				"tax_rate":        q.TaxRate,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return quote.ErrNotEditable
		}

		if err := tx.Where("quote_id = ?", q.ID).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}
		return (&GormStore{db: tx}).CreateQuoteItems(ctx, q.ID, q.Items)
	})
}

func (s *GormStore) ListSentPastValidity(ctx context.Context, cutoff time.Time) ([]models.Quote, error) {
	var quotes []models.Quote
	err := s.withItems(ctx).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?", models.QuoteSent, cutoff).
		Find(&quotes).Error
	return quotes, err
}

func (s *GormStore) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *GormStore) withItems(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
