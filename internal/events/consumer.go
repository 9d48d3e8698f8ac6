package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oseayemenre/bookstore/internal/logger"
	"github.com/oseayemenre/bookstore/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationStore interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
}

// Consumer turns queued events into user notifications.
type Consumer struct {
	store   NotificationStore
	logger  logger.Logger
	timeout time.Duration
}

func NewConsumer(store NotificationStore, logger logger.Logger) *Consumer {
	return &Consumer{
		store:   store,
		logger:  logger,
		timeout: 15 * time.Second,
	}
}

func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			c.Handle(ctx, d)
		}
	}
}

// Handle acks stored notifications, requeues on store errors and drops
// messages that cannot be turned into a notification.
func (c *Consumer) Handle(ctx context.Context, d amqp.Delivery) {
	var event Event

	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.logger.Warn(fmt.Sprintf("dropping malformed event: %v", err), "service", "consumer")
		d.Nack(false, false)
		return
	}

	notification, err := toNotification(event)

	if err != nil {
		c.logger.Warn(fmt.Sprintf("dropping event: %v", err), "service", "consumer", "type", event.Type)
		d.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.store.CreateNotification(ctx, notification); err != nil {
		c.logger.Error(fmt.Sprintf("error storing notification: %v", err), "service", "consumer", "type", event.Type)
		d.Nack(false, true)
		return
	}

	if err := d.Ack(false); err != nil {
		c.logger.Error(fmt.Sprintf("error acknowledging message: %v", err), "service", "consumer")
	}
}

func toNotification(event Event) (*models.Notification, error) {
	if event.Type == "" {
		return nil, fmt.Errorf("event has no type")
	}

	userId, err := primitive.ObjectIDFromHex(event.User_id)

	if err != nil {
		return nil, fmt.Errorf("event has no valid user id")
	}

	notification := &models.Notification{
		User_id:    userId,
		Type:       event.Type,
		Message:    event.Message,
		Created_at: event.Created_at,
	}

	if event.Order_id != "" {
		orderId, err := primitive.ObjectIDFromHex(event.Order_id)

		if err != nil {
			return nil, fmt.Errorf("event has an invalid order id")
		}

		notification.Order_id = orderId
	}

	if notification.Message == "" {
		notification.Message = defaultMessage(event)
	}

	return notification, nil
}

func defaultMessage(event Event) string {
	switch event.Type {
	case TypeOrderPlaced:
		return "Your order has been placed"
	case TypeOrderPaid:
		return "Payment received for your order"
	case TypeOrderStatusChanged:
		return fmt.Sprintf("Your order is now %s", event.Status)
	case TypeSubmissionCreated:
		return "Your manuscript has been submitted"
	case TypeSubmissionReviewed:
		return fmt.Sprintf("Your manuscript was %s", event.Status)
	}

	return event.Type
}
