package usecase

import (
	"context"
	"log"

	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/queue"
	"github.com/jpereira88/pipecrm/pkg/apperr"
)

// SetDealStageUseCase relabels a deal's pipeline stage. The stage graph is
// deliberately flat: any stage can move to any other, including itself, and
// concurrent moves are last-write-wins at the row level. The returned deal is
// the authoritative state the board reconciles against.
type SetDealStageUseCase struct {
	Deals  DealRepositoryInterface
	Stages StageRepositoryInterface
	Queue  EventPublisher
}

func NewSetDealStageUseCase(deals DealRepositoryInterface, stages StageRepositoryInterface, queue EventPublisher) *SetDealStageUseCase {
	return &SetDealStageUseCase{Deals: deals, Stages: stages, Queue: queue}
}

func (uc *SetDealStageUseCase) Execute(ctx context.Context, dealID int64, newStage string) (*entity.Deal, error) {
	stage, err := uc.Stages.FindByName(ctx, newStage)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.New(apperr.CodeInvalidStage, "Invalid stage name")
		}
		return nil, err
	}

	deal, err := uc.Deals.UpdateStage(ctx, dealID, stage.ID)
	if err != nil {
		return nil, err
	}

	if uc.Queue != nil {
		evt := queue.DealStageChangedEvent{
			DealID:   deal.ID,
			OwnerID:  deal.OwnerID,
			DealName: deal.Name,
			Stage:    stage.Name,
			Value:    deal.Value,
		}
		if err := uc.Queue.PublishDealStageChanged(ctx, evt); err != nil {
			log.Printf("deal %d stage change: event publish failed: %v", dealID, err)
		}
	}

	return deal, nil
}
