package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/queue"
)

// mockTx mocks the transactional write set.
type mockTx struct {
	mock.Mock
}

func (m *mockTx) LeadForUpdate(ctx context.Context, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *mockTx) FindCustomerIDByNameOrEmail(ctx context.Context, name, email string) (int64, bool, error) {
	args := m.Called(ctx, name, email)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *mockTx) InsertCustomer(ctx context.Context, c *entity.Customer) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTx) InsertContact(ctx context.Context, c *entity.Contact) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTx) StageIDByName(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTx) InsertDeal(ctx context.Context, d *entity.Deal) (int64, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTx) MarkLeadConverted(ctx context.Context, leadID, customerID int64) error {
	args := m.Called(ctx, leadID, customerID)
	return args.Error(0)
}

func (m *mockTx) DealNameByID(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *mockTx) InsertQuote(ctx context.Context, q *entity.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *mockTx) InsertQuoteLineItem(ctx context.Context, item *entity.QuoteLineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockTx) InsertTask(ctx context.Context, t *entity.Task) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

// mockStore runs the callback against mockTx and tracks the commit decision
// the way the real store makes it: nil from fn commits, anything else rolls
// back.
type mockStore struct {
	tx         *mockTx
	commits    int
	rollbacks  int
	beginError error
}

func (s *mockStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	if s.beginError != nil {
		return s.beginError
	}
	if err := fn(s.tx); err != nil {
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

type mockDealRepo struct {
	mock.Mock
}

func (m *mockDealRepo) UpdateStage(ctx context.Context, dealID, stageID int64) (*entity.Deal, error) {
	args := m.Called(ctx, dealID, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Deal), args.Error(1)
}

type mockStageRepo struct {
	mock.Mock
}

func (m *mockStageRepo) FindByName(ctx context.Context, name string) (*entity.DealStage, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DealStage), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishLeadConverted(ctx context.Context, evt queue.LeadConvertedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *mockPublisher) PublishDealStageChanged(ctx context.Context, evt queue.DealStageChangedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
