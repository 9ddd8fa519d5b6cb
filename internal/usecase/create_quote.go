package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/pkg/apperr"
)

// followUpDue is how long after quote creation the follow-up task is due.
const followUpDue = 3 * 24 * time.Hour

// CreateQuoteUseCase writes the quote, its line items and a follow-up task
// for the caller in one transaction.
type CreateQuoteUseCase struct {
	Store TxRunner

	now func() time.Time
}

func NewCreateQuoteUseCase(store TxRunner) *CreateQuoteUseCase {
	return &CreateQuoteUseCase{Store: store, now: time.Now}
}

func (uc *CreateQuoteUseCase) Execute(ctx context.Context, userID int64, input CreateQuoteInput) (*CreateQuoteOutput, error) {
	if errs := ValidateCreateQuoteInput(input); len(errs) > 0 {
		return nil, apperr.New(apperr.CodeValidation, joinValidationErrors(errs))
	}

	now := uc.now()
	quoteID := newQuoteID(now)

	err := uc.Store.WithinTx(ctx, func(tx Tx) error {
		dealName, err := tx.DealNameByID(ctx, input.DealID)
		if err != nil {
			if !apperr.IsNotFound(err) {
				return err
			}
			dealName = "N/A"
		}

		if err := tx.InsertQuote(ctx, &entity.Quote{
			ID:         quoteID,
			DealID:     input.DealID,
			CustomerID: input.CustomerID,
			Status:     input.Status,
			Subtotal:   input.Subtotal,
			Tax:        input.Tax,
			Total:      input.Total,
			CreatedAt:  now,
		}); err != nil {
			return err
		}

		for _, item := range input.LineItems {
			if err := tx.InsertQuoteLineItem(ctx, &entity.QuoteLineItem{
				QuoteID:     quoteID,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				PriceAtTime: item.PriceAtTime,
			}); err != nil {
				return err
			}
		}

		dealID := input.DealID
		_, err = tx.InsertTask(ctx, &entity.Task{
			Title:      fmt.Sprintf("Follow up on Quote #%s for deal: %s", quoteID, dealName),
			DueDate:    now.Add(followUpDue),
			Priority:   entity.TaskPriorityMedium,
			Status:     entity.TaskStatusUpcoming,
			AssigneeID: userID,
			DealID:     &dealID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return &CreateQuoteOutput{ID: quoteID, Msg: "Quote created successfully"}, nil
}

// newQuoteID keeps the human-readable QT-<year>-<suffix> shape the SPA
// displays; the suffix comes from the millisecond clock, as good as unique
// for the volume a quote form produces.
func newQuoteID(now time.Time) string {
	return fmt.Sprintf("QT-%d-%04d", now.Year(), now.UnixMilli()%10000)
}
