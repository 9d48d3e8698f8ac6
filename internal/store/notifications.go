package store

import (
	"context"
	"fmt"

	"github.com/oseayemenre/bookstore/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if notification.Created_at.IsZero() {
		notification.Created_at = now()
	}

	if _, err := s.db.Collection(collectionNotifications).InsertOne(ctx, notification); err != nil {
		return fmt.Errorf("error inserting notification: %w", err)
	}

	return nil
}

func (s *MongoStore) GetNotificationsByUser(ctx context.Context, userId string) ([]models.Notification, error) {
	uid, err := parseId(userId)

	if err != nil {
		return []models.Notification{}, nil
	}

	cur, err := s.db.Collection(collectionNotifications).Find(ctx,
		bson.M{"userId": uid},
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(50),
	)

	if err != nil {
		return nil, fmt.Errorf("error querying notifications: %w", err)
	}

	notifications := []models.Notification{}

	if err := cur.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("error decoding notifications: %w", err)
	}

	return notifications, nil
}
