// controllers/quote.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"designhub-backend/models"
	"designhub-backend/quote"
	"designhub-backend/services"
	"designhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteInput is the JSON body for creating, previewing and updating a quote.
type QuoteInput struct {
	ProjectID      uuid.UUID        `json:"projectId"`
	QuoteNumber    string           `json:"quoteNumber"`
	Title          string           `json:"title"`
	Notes          string           `json:"notes"`
	Terms          string           `json:"terms"`
	ValidUntil     string           `json:"validUntil"`
	DiscountAmount decimal.Decimal  `json:"discountAmount"`
	TaxRate        *decimal.Decimal `json:"taxRate"`
	Items          []QuoteItemInput `json:"items"`
}

type QuoteItemInput struct {
	ID              uuid.UUID           `json:"id"`
	ItemType        models.ItemType     `json:"itemType"`
	MaterialID      *uuid.UUID          `json:"materialId"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	Unit            string              `json:"unit"`
	Quantity        decimal.Decimal     `json:"quantity"`
	UnitPrice       decimal.Decimal     `json:"unitPrice"`
	DiscountPercent decimal.Decimal     `json:"discountPercent"`
	Width           decimal.NullDecimal `json:"width"`
	Height          decimal.NullDecimal `json:"height"`
	Depth           decimal.NullDecimal `json:"depth"`
}

// UpdateItemInput sets a single field of one line.
type UpdateItemInput struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// FeedbackInput is the customer's answer to a quote.
type FeedbackInput struct {
	Feedback string `json:"feedback"`
}

type QuoteItemResponse struct {
	models.QuoteItem
	Amount             decimal.Decimal `json:"amount"`
	DisplayDescription string          `json:"displayDescription"`
}

type QuoteResponse struct {
	models.Quote
	Items            []QuoteItemResponse `json:"items"`
	Totals           quote.Totals        `json:"totals"`
	CustomerAccepted bool                `json:"customerAccepted"`
	Actions          []string            `json:"actions"`
	DaysRemaining    *int                `json:"daysRemaining,omitempty"`
}

type QuoteController struct {
	quotes *services.QuoteService
	now    func() time.Time
}

func NewQuoteController(quotes *services.QuoteService) *QuoteController {
	return &QuoteController{quotes: quotes, now: time.Now}
}

// PreviewQuote prices a payload without saving it.
func (qc *QuoteController) PreviewQuote(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	in, ok := bindQuoteInput(c)
	if !ok {
		return
	}

	q, totals, err := qc.quotes.Preview(c.Request.Context(), actor, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totals": totals,
		"items":  qc.itemResponses(q),
		"errors": quote.ValidationMessages(quote.Validate(q)),
	})
}

// CreateQuote saves a new quote, as a draft unless ?status=sent.
func (qc *QuoteController) CreateQuote(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	in, ok := bindQuoteInput(c)
	if !ok {
		return
	}
	status := models.QuoteStatus(c.DefaultQuery("status", string(models.QuoteDraft)))

	q, err := qc.quotes.Create(c.Request.Context(), actor, in, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, qc.response(c, q))
}

func (qc *QuoteController) GetQuote(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "quote")
	if !ok {
		return
	}

	q, err := qc.quotes.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qc.response(c, q))
}

// UpdateQuote replaces a draft's fields and items.
func (qc *QuoteController) UpdateQuote(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "quote")
	if !ok {
		return
	}
	in, ok := bindQuoteInput(c)
	if !ok {
		return
	}

	q, err := qc.quotes.UpdateDraft(c.Request.Context(), actor, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qc.response(c, q))
}

func (qc *QuoteController) AddItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "quote")
	if !ok {
		return
	}

	q, err := qc.quotes.AddItem(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, qc.response(c, q))
}

func (qc *QuoteController) UpdateItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "quote")
	if !ok {
		return
	}
	index, ok := paramIndex(c)
	if !ok {
		return
	}
	var input UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	q, err := qc.quotes.UpdateItem(c.Request.Context(), actor, id, index, quote.Field(input.Field), input.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qc.response(c, q))
}

func (qc *QuoteController) RemoveItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "quote")
	if !ok {
		return
	}
	index, ok := paramIndex(c)
	if !ok {
		return
	}

	q, err := qc.quotes.RemoveItem(c.Request.Context(), actor, id, index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qc.response(c, q))
}

func (qc *QuoteController) SubmitQuote(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "quote")
	if !ok {
		return
	}

	q, err := qc.quotes.Submit(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qc.response(c, q))
}

func (qc *QuoteController) AcceptQuote(c *gin.Context) {
	qc.answer(c, qc.quotes.Accept)
}

func (qc *QuoteController) RejectQuote(c *gin.Context) {
	qc.answer(c, qc.quotes.Reject)
}

// ListProjectQuotes returns the quotes of a project visible to the caller.
func (qc *QuoteController) ListProjectQuotes(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}

	quotes, err := qc.quotes.ListForProject(c.Request.Context(), actor, projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, qc.response(c, &quotes[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (qc *QuoteController) answer(c *gin.Context, respond func(ctx context.Context, actor services.Actor, id uuid.UUID, feedback string) (*models.Quote, error)) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "quote")
	if !ok {
		return
	}
	var input FeedbackInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
	}

	q, err := respond(c.Request.Context(), actor, id, input.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qc.response(c, q))
}

func (qc *QuoteController) response(c *gin.Context, q *models.Quote) QuoteResponse {
	resp := QuoteResponse{
		Quote:            *q,
		Items:            qc.itemResponses(q),
		Totals:           quote.ComputeTotals(q),
		CustomerAccepted: q.IsAccepted(),
		Actions:          qc.quotes.Actions(c.Request.Context(), q),
	}
	if q.ValidUntil != nil && q.Status == models.QuoteSent {
		days := utils.DaysBetween(qc.now(), *q.ValidUntil)
		resp.DaysRemaining = &days
	}
	return resp
}

func (qc *QuoteController) itemResponses(q *models.Quote) []QuoteItemResponse {
	items := make([]QuoteItemResponse, 0, len(q.Items))
	for i := range q.Items {
		item := &q.Items[i]
		items = append(items, QuoteItemResponse{
			QuoteItem:          *item,
			Amount:             item.Amount(),
			DisplayDescription: quote.DisplayDescription(item),
		})
	}
	return items
}

func bindQuoteInput(c *gin.Context) (services.QuoteInput, bool) {
	var input QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return services.QuoteInput{}, false
	}

	in := services.QuoteInput{
		ProjectID:      input.ProjectID,
		QuoteNumber:    input.QuoteNumber,
		Title:          input.Title,
		Notes:          input.Notes,
		Terms:          input.Terms,
		DiscountAmount: input.DiscountAmount,
		TaxRate:        input.TaxRate,
		Items:          make([]models.QuoteItem, 0, len(input.Items)),
	}
	if input.ValidUntil != "" {
		validUntil, err := utils.ParseDate(input.ValidUntil)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid validUntil date")
			return services.QuoteInput{}, false
		}
		in.ValidUntil = &validUntil
	}
	for _, it := range input.Items {
		in.Items = append(in.Items, models.QuoteItem{
			ID:              it.ID,
			ItemType:        it.ItemType,
			MaterialID:      it.MaterialID,
			Name:            it.Name,
			Description:     it.Description,
			Unit:            it.Unit,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Width:           it.Width,
			Height:          it.Height,
			Depth:           it.Depth,
		})
	}
	return in, true
}
