package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const QueueEvents = "bookstore.events"

const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderPaid          = "order.paid"
	TypeOrderStatusChanged = "order.status_changed"
	TypeSubmissionCreated  = "submission.created"
	TypeSubmissionReviewed = "submission.reviewed"
)

type Event struct {
	Type          string    `json:"type"`
	User_id       string    `json:"userId,omitempty"`
	Order_id      string    `json:"orderId,omitempty"`
	Submission_id string    `json:"submissionId,omitempty"`
	Status        string    `json:"status,omitempty"`
	Message       string    `json:"message"`
	Created_at    time.Time `json:"createdAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitPublisher struct {
	ch    channel
	queue string
}

func NewRabbitPublisher(ch channel) *RabbitPublisher {
	return &RabbitPublisher{
		ch:    ch,
		queue: QueueEvents,
	}
}

// DeclareQueue declares the durable events queue on ch.
func DeclareQueue(ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(QueueEvents, true, false, false, false, nil)
}

func (p *RabbitPublisher) Publish(ctx context.Context, event Event) error {
	if event.Created_at.IsZero() {
		event.Created_at = time.Now().UTC()
	}

	body, err := json.Marshal(event)

	if err != nil {
		return fmt.Errorf("error marshalling event: %v", err)
	}

	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.Created_at,
		Type:         event.Type,
		Body:         body,
	}); err != nil {
		return fmt.Errorf("error publishing event: %v", err)
	}

	return nil
}

type Noop struct{}

func (Noop) Publish(ctx context.Context, event Event) error {
	return nil
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	if event.Created_at.IsZero() {
		event.Created_at = time.Now().UTC()
	}

	var errs []error

	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
