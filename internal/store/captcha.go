package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/oseayemenre/bookstore/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrCaptchaNotFound = errors.New("captcha not found or expired")

func (s *MongoStore) SaveCaptcha(ctx context.Context, captcha *models.Captcha) error {
	if _, err := s.db.Collection(collectionCaptchas).InsertOne(ctx, captcha); err != nil {
		return fmt.Errorf("error saving captcha: %w", err)
	}

	return nil
}

// ConsumeCaptcha deletes and returns the captcha so each one is single use.
// Expired documents are rejected even if the TTL monitor has not removed them.
func (s *MongoStore) ConsumeCaptcha(ctx context.Context, id string) (*models.Captcha, error) {
	var captcha models.Captcha

	err := s.db.Collection(collectionCaptchas).FindOneAndDelete(ctx, bson.M{
		"_id":       id,
		"expiresAt": bson.M{"$gt": now()},
	}).Decode(&captcha)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCaptchaNotFound
		}
		return nil, fmt.Errorf("error consuming captcha: %w", err)
	}

	return &captcha, nil
}
