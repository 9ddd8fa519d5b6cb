package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/pkg/apperr"
)

var testNow = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

func newConvertUC(store *mockStore, publisher *mockPublisher) *ConvertLeadUseCase {
	var uc *ConvertLeadUseCase
	if publisher != nil {
		uc = NewConvertLeadUseCase(store, publisher)
	} else {
		uc = NewConvertLeadUseCase(store, nil)
	}
	uc.now = func() time.Time { return testNow }
	return uc
}

func TestConvertLeadCreatesCustomerContactAndDeal(t *testing.T) {
	ctx := context.Background()

	lead := &entity.Lead{
		ID:      7,
		Name:    "Ana Costa",
		Company: "Acme Ltda",
		Email:   "ana@acme.com",
		Phone:   "11 99999-0000",
		Status:  entity.LeadStatusQualified,
		OwnerID: 3,
	}

	tx := new(mockTx)
	tx.On("LeadForUpdate", ctx, int64(7)).Return(lead, nil)
	// No customer with this name or email yet.
	tx.On("FindCustomerIDByNameOrEmail", ctx, "Acme Ltda", "ana@acme.com").Return(int64(0), false, nil)
	tx.On("InsertCustomer", ctx, mock.Anything).Return(int64(42), nil)
	tx.On("InsertContact", ctx, mock.Anything).Return(int64(9), nil)
	tx.On("StageIDByName", ctx, entity.StageNew).Return(int64(1), nil)
	tx.On("InsertDeal", ctx, mock.Anything).Return(int64(15), nil)
	tx.On("MarkLeadConverted", ctx, int64(7), int64(42)).Return(nil)

	store := &mockStore{tx: tx}
	publisher := new(mockPublisher)
	publisher.On("PublishLeadConverted", ctx, mock.Anything).Return(nil)

	uc := newConvertUC(store, publisher)
	out, err := uc.Execute(ctx, 7, ConvertLeadInput{DealName: "Acme expansion", DealValue: 5000})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.CustomerID)
	assert.Equal(t, int64(15), out.DealID)
	assert.Equal(t, 1, store.commits)
	assert.Equal(t, 0, store.rollbacks)

	// The customer inherits the lead's company and owner.
	customer := tx.Calls[2].Arguments.Get(1).(*entity.Customer)
	assert.Equal(t, "Acme Ltda", customer.Name)
	assert.Equal(t, int64(3), customer.OwnerID)

	// The contact is the lead person attached to the new customer.
	contact := tx.Calls[3].Arguments.Get(1).(*entity.Contact)
	assert.Equal(t, int64(42), contact.CustomerID)
	assert.Equal(t, "Ana Costa", contact.Name)

	// The deal starts at the first stage with the close date pushed out.
	deal := tx.Calls[5].Arguments.Get(1).(*entity.Deal)
	assert.Equal(t, "Acme expansion", deal.Name)
	assert.Equal(t, float64(5000), deal.Value)
	assert.Equal(t, int64(1), deal.StageID)
	assert.Equal(t, testNow.Add(30*24*time.Hour), deal.CloseDate)

	publisher.AssertCalled(t, "PublishLeadConverted", ctx, mock.Anything)
}

func TestConvertLeadReusesExistingCustomer(t *testing.T) {
	ctx := context.Background()

	lead := &entity.Lead{
		ID:      8,
		Name:    "Bruno Lima",
		Company: "Acme Ltda",
		Email:   "bruno@acme.com",
		Status:  entity.LeadStatusNew,
		OwnerID: 3,
	}

	tx := new(mockTx)
	tx.On("LeadForUpdate", ctx, int64(8)).Return(lead, nil)
	tx.On("FindCustomerIDByNameOrEmail", ctx, "Acme Ltda", "bruno@acme.com").Return(int64(42), true, nil)
	tx.On("InsertContact", ctx, mock.Anything).Return(int64(10), nil)
	tx.On("StageIDByName", ctx, entity.StageNew).Return(int64(1), nil)
	tx.On("InsertDeal", ctx, mock.Anything).Return(int64(16), nil)
	tx.On("MarkLeadConverted", ctx, int64(8), int64(42)).Return(nil)

	store := &mockStore{tx: tx}
	uc := newConvertUC(store, nil)

	out, err := uc.Execute(ctx, 8, ConvertLeadInput{DealName: "Second deal", DealValue: 1200})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.CustomerID)
	// The existing customer is reused, never duplicated.
	tx.AssertNotCalled(t, "InsertCustomer", mock.Anything, mock.Anything)
	// The contact still lands on the reused customer.
	tx.AssertCalled(t, "InsertContact", ctx, mock.Anything)
	assert.Equal(t, 1, store.commits)
}

func TestConvertLeadAlreadyConvertedIsRejected(t *testing.T) {
	ctx := context.Background()

	converted := int64(42)
	lead := &entity.Lead{
		ID:                  7,
		Company:             "Acme Ltda",
		Status:              entity.LeadStatusConverted,
		ConvertedCustomerID: &converted,
	}

	tx := new(mockTx)
	tx.On("LeadForUpdate", ctx, int64(7)).Return(lead, nil)

	store := &mockStore{tx: tx}
	publisher := new(mockPublisher)
	uc := newConvertUC(store, publisher)

	out, err := uc.Execute(ctx, 7, ConvertLeadInput{DealName: "Again", DealValue: 100})

	assert.Nil(t, out)
	assert.Equal(t, apperr.CodeAlreadyConverted, apperr.CodeOf(err))
	assert.Equal(t, "Lead has already been converted", apperr.MessageOf(err))

	tx.AssertNotCalled(t, "InsertCustomer", mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "InsertDeal", mock.Anything, mock.Anything)
	assert.Equal(t, 0, store.commits)
	assert.Equal(t, 1, store.rollbacks)
	publisher.AssertNotCalled(t, "PublishLeadConverted", mock.Anything, mock.Anything)
}

func TestConvertLeadNotFound(t *testing.T) {
	ctx := context.Background()

	tx := new(mockTx)
	tx.On("LeadForUpdate", ctx, int64(999)).Return(nil, apperr.New(apperr.CodeNotFound, "Lead not found"))

	store := &mockStore{tx: tx}
	uc := newConvertUC(store, nil)

	out, err := uc.Execute(ctx, 999, ConvertLeadInput{DealName: "Ghost", DealValue: 1})

	assert.Nil(t, out)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 1, store.rollbacks)
}

func TestConvertLeadRollsBackWhenDealInsertFails(t *testing.T) {
	ctx := context.Background()

	lead := &entity.Lead{ID: 7, Company: "Acme Ltda", Email: "a@acme.com", Status: entity.LeadStatusNew, OwnerID: 3}

	tx := new(mockTx)
	tx.On("LeadForUpdate", ctx, int64(7)).Return(lead, nil)
	tx.On("FindCustomerIDByNameOrEmail", ctx, mock.Anything, mock.Anything).Return(int64(0), false, nil)
	tx.On("InsertCustomer", ctx, mock.Anything).Return(int64(42), nil)
	tx.On("InsertContact", ctx, mock.Anything).Return(int64(9), nil)
	tx.On("StageIDByName", ctx, entity.StageNew).Return(int64(1), nil)
	tx.On("InsertDeal", ctx, mock.Anything).Return(int64(0), errors.New("connection reset"))

	store := &mockStore{tx: tx}
	publisher := new(mockPublisher)
	uc := newConvertUC(store, publisher)

	out, err := uc.Execute(ctx, 7, ConvertLeadInput{DealName: "Doomed", DealValue: 10})

	assert.Nil(t, out)
	assert.Error(t, err)
	// Nothing after the failed insert runs; the whole unit rolls back.
	tx.AssertNotCalled(t, "MarkLeadConverted", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 0, store.commits)
	assert.Equal(t, 1, store.rollbacks)
	publisher.AssertNotCalled(t, "PublishLeadConverted", mock.Anything, mock.Anything)
}

func TestConvertLeadValidatesInput(t *testing.T) {
	ctx := context.Background()

	tx := new(mockTx)
	store := &mockStore{tx: tx}
	uc := newConvertUC(store, nil)

	out, err := uc.Execute(ctx, 7, ConvertLeadInput{DealName: "   ", DealValue: -5})

	assert.Nil(t, out)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	// The transaction is never opened on bad input.
	assert.Equal(t, 0, store.commits)
	assert.Equal(t, 0, store.rollbacks)
	tx.AssertNotCalled(t, "LeadForUpdate", mock.Anything, mock.Anything)
}

func TestConvertLeadSurvivesPublishFailure(t *testing.T) {
	ctx := context.Background()

	lead := &entity.Lead{ID: 7, Company: "Acme Ltda", Email: "a@acme.com", Status: entity.LeadStatusNew, OwnerID: 3}

	tx := new(mockTx)
	tx.On("LeadForUpdate", ctx, int64(7)).Return(lead, nil)
	tx.On("FindCustomerIDByNameOrEmail", ctx, mock.Anything, mock.Anything).Return(int64(0), false, nil)
	tx.On("InsertCustomer", ctx, mock.Anything).Return(int64(42), nil)
	tx.On("InsertContact", ctx, mock.Anything).Return(int64(9), nil)
	tx.On("StageIDByName", ctx, entity.StageNew).Return(int64(1), nil)
	tx.On("InsertDeal", ctx, mock.Anything).Return(int64(15), nil)
	tx.On("MarkLeadConverted", ctx, int64(7), int64(42)).Return(nil)

	store := &mockStore{tx: tx}
	publisher := new(mockPublisher)
	publisher.On("PublishLeadConverted", ctx, mock.Anything).Return(errors.New("broker down"))

	uc := newConvertUC(store, publisher)
	out, err := uc.Execute(ctx, 7, ConvertLeadInput{DealName: "Committed anyway", DealValue: 10})

	// The conversion committed; a lost event never fails the request.
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.CustomerID)
	assert.Equal(t, 1, store.commits)
}
