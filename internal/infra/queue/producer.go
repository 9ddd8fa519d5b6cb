package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Event kinds carried in the envelope so one queue serves every CRM event.
const (
	EventLeadConverted    = "lead.converted"
	EventDealStageChanged = "deal.stage_changed"
)

type LeadConvertedEvent struct {
	LeadID     int64   `json:"lead_id"`
	CustomerID int64   `json:"customer_id"`
	DealID     int64   `json:"deal_id"`
	OwnerID    int64   `json:"owner_id"`
	DealName   string  `json:"deal_name"`
	DealValue  float64 `json:"deal_value"`
}

type DealStageChangedEvent struct {
	DealID   int64   `json:"deal_id"`
	OwnerID  int64   `json:"owner_id"`
	DealName string  `json:"deal_name"`
	Stage    string  `json:"stage"`
	Value    float64 `json:"value"`
}

type envelope struct {
	Kind       string          `json:"kind"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type Producer struct {
	ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *Producer {
	return &Producer{ch: ch}
}

func (p *Producer) PublishLeadConverted(ctx context.Context, evt LeadConvertedEvent) error {
	return p.publish(ctx, EventLeadConverted, evt)
}

func (p *Producer) PublishDealStageChanged(ctx context.Context, evt DealStageChangedEvent) error {
	return p.publish(ctx, EventDealStageChanged, evt)
}

func (p *Producer) publish(ctx context.Context, kind string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	body, err := json.Marshal(envelope{
		Kind:       kind,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	})
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
