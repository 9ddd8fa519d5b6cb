package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/queue"
	"github.com/jpereira88/pipecrm/pkg/apperr"
)

func TestSetDealStageMovesDeal(t *testing.T) {
	ctx := context.Background()

	deals := new(mockDealRepo)
	stages := new(mockStageRepo)
	publisher := new(mockPublisher)

	stages.On("FindByName", ctx, "proposal").Return(&entity.DealStage{ID: 3, Name: "proposal"}, nil)
	deals.On("UpdateStage", ctx, int64(15), int64(3)).
		Return(&entity.Deal{ID: 15, Name: "Acme expansion", OwnerID: 3, Value: 5000, StageID: 3, StageName: "proposal"}, nil)
	publisher.On("PublishDealStageChanged", ctx, mock.Anything).Return(nil)

	uc := NewSetDealStageUseCase(deals, stages, publisher)
	deal, err := uc.Execute(ctx, 15, "proposal")

	assert.NoError(t, err)
	assert.Equal(t, "proposal", deal.StageName)
	deals.AssertCalled(t, "UpdateStage", ctx, int64(15), int64(3))
}

// A deal can leave won again; no stage is terminal.
func TestSetDealStageRoundTripThroughWon(t *testing.T) {
	ctx := context.Background()

	deals := new(mockDealRepo)
	stages := new(mockStageRepo)
	publisher := new(mockPublisher)

	stages.On("FindByName", ctx, "won").Return(&entity.DealStage{ID: 4, Name: "won"}, nil)
	stages.On("FindByName", ctx, "proposal").Return(&entity.DealStage{ID: 3, Name: "proposal"}, nil)
	deals.On("UpdateStage", ctx, int64(15), int64(4)).
		Return(&entity.Deal{ID: 15, OwnerID: 3, StageID: 4, StageName: "won"}, nil)
	deals.On("UpdateStage", ctx, int64(15), int64(3)).
		Return(&entity.Deal{ID: 15, OwnerID: 3, StageID: 3, StageName: "proposal"}, nil)
	publisher.On("PublishDealStageChanged", ctx, mock.Anything).Return(nil)

	uc := NewSetDealStageUseCase(deals, stages, publisher)

	deal, err := uc.Execute(ctx, 15, "won")
	assert.NoError(t, err)
	assert.Equal(t, "won", deal.StageName)

	deal, err = uc.Execute(ctx, 15, "proposal")
	assert.NoError(t, err)
	assert.Equal(t, "proposal", deal.StageName)
}

func TestSetDealStageSameStageIsIdempotent(t *testing.T) {
	ctx := context.Background()

	deals := new(mockDealRepo)
	stages := new(mockStageRepo)

	stages.On("FindByName", ctx, "qualifying").Return(&entity.DealStage{ID: 2, Name: "qualifying"}, nil)
	deals.On("UpdateStage", ctx, int64(15), int64(2)).
		Return(&entity.Deal{ID: 15, StageID: 2, StageName: "qualifying"}, nil)

	uc := NewSetDealStageUseCase(deals, stages, nil)

	for i := 0; i < 2; i++ {
		deal, err := uc.Execute(ctx, 15, "qualifying")
		assert.NoError(t, err)
		assert.Equal(t, "qualifying", deal.StageName)
	}
}

func TestSetDealStageRejectsUnknownStage(t *testing.T) {
	ctx := context.Background()

	deals := new(mockDealRepo)
	stages := new(mockStageRepo)

	stages.On("FindByName", ctx, "negotiation").Return(nil, apperr.New(apperr.CodeNotFound, "Stage not found"))

	uc := NewSetDealStageUseCase(deals, stages, nil)
	deal, err := uc.Execute(ctx, 15, "negotiation")

	assert.Nil(t, deal)
	assert.Equal(t, apperr.CodeInvalidStage, apperr.CodeOf(err))
	assert.Equal(t, "Invalid stage name", apperr.MessageOf(err))
	deals.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetDealStageDealNotFound(t *testing.T) {
	ctx := context.Background()

	deals := new(mockDealRepo)
	stages := new(mockStageRepo)

	stages.On("FindByName", ctx, "won").Return(&entity.DealStage{ID: 4, Name: "won"}, nil)
	deals.On("UpdateStage", ctx, int64(999), int64(4)).Return(nil, apperr.New(apperr.CodeNotFound, "Deal not found"))

	uc := NewSetDealStageUseCase(deals, stages, nil)
	deal, err := uc.Execute(ctx, 999, "won")

	assert.Nil(t, deal)
	assert.True(t, apperr.IsNotFound(err))
}

func TestSetDealStageWonPublishesEvent(t *testing.T) {
	ctx := context.Background()

	deals := new(mockDealRepo)
	stages := new(mockStageRepo)
	publisher := new(mockPublisher)

	stages.On("FindByName", ctx, "won").Return(&entity.DealStage{ID: 4, Name: "won"}, nil)
	deals.On("UpdateStage", ctx, int64(15), int64(4)).
		Return(&entity.Deal{ID: 15, Name: "Acme expansion", OwnerID: 3, Value: 5000, StageID: 4, StageName: "won"}, nil)

	var published queue.DealStageChangedEvent
	publisher.On("PublishDealStageChanged", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			published = args.Get(1).(queue.DealStageChangedEvent)
		}).
		Return(nil)

	uc := NewSetDealStageUseCase(deals, stages, publisher)
	_, err := uc.Execute(ctx, 15, "won")

	assert.NoError(t, err)
	assert.Equal(t, int64(15), published.DealID)
	assert.Equal(t, "won", published.Stage)
	assert.Equal(t, float64(5000), published.Value)
}
