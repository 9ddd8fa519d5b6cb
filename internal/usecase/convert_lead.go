package usecase

import (
	"context"
	"log"
	"time"

	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/queue"
	"github.com/jpereira88/pipecrm/pkg/apperr"
)

// closeDateHorizon is how far out a converted deal's close date is set.
const closeDateHorizon = 30 * 24 * time.Hour

// ConvertLeadUseCase turns a lead into a customer (new or reused), a contact
// and a deal, exactly once per lead, inside one database transaction. A
// repeated conversion is rejected, never silently absorbed.
type ConvertLeadUseCase struct {
	Store TxRunner
	Queue EventPublisher

	// now is swappable in tests.
	now func() time.Time
}

func NewConvertLeadUseCase(store TxRunner, queue EventPublisher) *ConvertLeadUseCase {
	return &ConvertLeadUseCase{
		Store: store,
		Queue: queue,
		now:   time.Now,
	}
}

func (uc *ConvertLeadUseCase) Execute(ctx context.Context, leadID int64, input ConvertLeadInput) (*ConvertLeadOutput, error) {
	if errs := ValidateConvertLeadInput(input); len(errs) > 0 {
		return nil, apperr.New(apperr.CodeValidation, joinValidationErrors(errs))
	}

	var (
		out  ConvertLeadOutput
		lead *entity.Lead
	)

	err := uc.Store.WithinTx(ctx, func(tx Tx) error {
		var err error

		// The row lock held here is what serializes two near-simultaneous
		// conversion calls for the same lead: the second waits, then sees
		// the committed Converted status.
		lead, err = tx.LeadForUpdate(ctx, leadID)
		if err != nil {
			return err
		}
		if lead.IsConverted() {
			return apperr.New(apperr.CodeAlreadyConverted, "Lead has already been converted")
		}

		customerID, found, err := tx.FindCustomerIDByNameOrEmail(ctx, lead.Company, lead.Email)
		if err != nil {
			return err
		}
		if !found {
			customerID, err = tx.InsertCustomer(ctx, &entity.Customer{
				Name:    lead.Company,
				Email:   lead.Email,
				OwnerID: lead.OwnerID,
			})
			if err != nil {
				return err
			}
		}

		// A contact is appended either way; on reuse it is the only new
		// customer-side row.
		if _, err = tx.InsertContact(ctx, &entity.Contact{
			CustomerID: customerID,
			Name:       lead.Name,
			Email:      lead.Email,
			Phone:      lead.Phone,
		}); err != nil {
			return err
		}

		stageID, err := tx.StageIDByName(ctx, entity.StageNew)
		if err != nil {
			return err
		}

		dealID, err := tx.InsertDeal(ctx, &entity.Deal{
			Name:       input.DealName,
			Value:      input.DealValue,
			CloseDate:  uc.now().Add(closeDateHorizon),
			CustomerID: customerID,
			OwnerID:    lead.OwnerID,
			StageID:    stageID,
		})
		if err != nil {
			return err
		}

		if err = tx.MarkLeadConverted(ctx, leadID, customerID); err != nil {
			return err
		}

		out = ConvertLeadOutput{CustomerID: customerID, DealID: dealID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.Queue != nil {
		evt := queue.LeadConvertedEvent{
			LeadID:     leadID,
			CustomerID: out.CustomerID,
			DealID:     out.DealID,
			OwnerID:    lead.OwnerID,
			DealName:   input.DealName,
			DealValue:  input.DealValue,
		}
		if err := uc.Queue.PublishLeadConverted(ctx, evt); err != nil {
			// The conversion is committed; a lost notification is not worth
			// failing the request over.
			log.Printf("convert lead %d: event publish failed: %v", leadID, err)
		}
	}

	return &out, nil
}
