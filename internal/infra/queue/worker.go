package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/jpereira88/pipecrm/internal/entity"
)

type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
}

type Notifier interface {
	SendConversionNotice(to, ownerName, dealName string, value float64) error
	SendDealWonNotice(to, ownerName, dealName string, value float64) error
}

// Worker consumes CRM events and turns them into owner notifications. Bad
// payloads are nacked without requeue and end up in the DLQ; mail failures
// are nacked the same way so a broken SMTP setup cannot wedge the queue.
type Worker struct {
	ch     *amqp.Channel
	users  UserFinder
	mailer Notifier
}

func NewWorker(ch *amqp.Channel, users UserFinder, mailer Notifier) *Worker {
	return &Worker{ch: ch, users: users, mailer: mailer}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.ch.Consume(queueName, "crm-notifier", false, false, false, false, nil)
	if err != nil {
		log.Printf("worker: consume failed: %v", err)
		return
	}

	log.Printf("worker: consuming %s", queueName)
	for msg := range msgs {
		if err := w.handle(msg.Body); err != nil {
			log.Printf("worker: %v", err)
			msg.Nack(false, false)
			continue
		}
		msg.Ack(false)
	}
}

func (w *Worker) handle(body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return err
	}

	ctx := context.Background()

	switch env.Kind {
	case EventLeadConverted:
		var evt LeadConvertedEvent
		if err := json.Unmarshal(env.Payload, &evt); err != nil {
			return err
		}
		owner, err := w.users.FindByID(ctx, evt.OwnerID)
		if err != nil {
			return err
		}
		return w.mailer.SendConversionNotice(owner.Email, owner.Name, evt.DealName, evt.DealValue)

	case EventDealStageChanged:
		var evt DealStageChangedEvent
		if err := json.Unmarshal(env.Payload, &evt); err != nil {
			return err
		}
		// Only a win is worth an email; the board churns constantly.
		if evt.Stage != entity.StageWon {
			return nil
		}
		owner, err := w.users.FindByID(ctx, evt.OwnerID)
		if err != nil {
			return err
		}
		return w.mailer.SendDealWonNotice(owner.Email, owner.Name, evt.DealName, evt.Value)

	default:
		log.Printf("worker: ignoring unknown event kind %q", env.Kind)
		return nil
	}
}
