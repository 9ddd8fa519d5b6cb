package usecase

import (
	"context"

	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/queue"
)

// Tx is the set of writes available inside a database transaction. The
// conversion and quote flows are the only multi-statement units in the
// system; everything else goes through the plain repositories.
type Tx interface {
	// LeadForUpdate locks the lead row for the duration of the transaction
	// so two concurrent conversions of the same lead serialize at step one.
	LeadForUpdate(ctx context.Context, id int64) (*entity.Lead, error)
	FindCustomerIDByNameOrEmail(ctx context.Context, name, email string) (int64, bool, error)
	InsertCustomer(ctx context.Context, c *entity.Customer) (int64, error)
	InsertContact(ctx context.Context, c *entity.Contact) (int64, error)
	StageIDByName(ctx context.Context, name string) (int64, error)
	InsertDeal(ctx context.Context, d *entity.Deal) (int64, error)
	MarkLeadConverted(ctx context.Context, leadID, customerID int64) error

	DealNameByID(ctx context.Context, id int64) (string, error)
	InsertQuote(ctx context.Context, q *entity.Quote) error
	InsertQuoteLineItem(ctx context.Context, item *entity.QuoteLineItem) error
	InsertTask(ctx context.Context, t *entity.Task) (int64, error)
}

// TxRunner runs fn inside a single transaction: commit when fn returns nil,
// rollback otherwise. The transactional connection is always released before
// WithinTx returns.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

type DealRepositoryInterface interface {
	UpdateStage(ctx context.Context, dealID, stageID int64) (*entity.Deal, error)
}

type StageRepositoryInterface interface {
	FindByName(ctx context.Context, name string) (*entity.DealStage, error)
}

type EventPublisher interface {
	PublishLeadConverted(ctx context.Context, evt queue.LeadConvertedEvent) error
	PublishDealStageChanged(ctx context.Context, evt queue.DealStageChangedEvent) error
}
