package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/oseayemenre/bookstore/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("item not in cart")
)

func (s *MongoStore) GetCart(ctx context.Context, userId string) (*models.Cart, error) {
	uid, err := parseId(userId)

	if err != nil {
		return nil, ErrUserNotFound
	}

	var cart models.Cart

	if err := s.db.Collection(collectionCarts).FindOne(ctx, bson.M{"userId": uid}).Decode(&cart); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.Cart{User_id: uid, Items: []models.LineItem{}}, nil
		}
		return nil, fmt.Errorf("error retrieving cart: %w", err)
	}

	if cart.Items == nil {
		cart.Items = []models.LineItem{}
	}

	return &cart, nil
}

// AddToCart accumulates quantity on an existing line or appends a new one,
// creating the cart on first use.
func (s *MongoStore) AddToCart(ctx context.Context, userId string, bookId string, quantity int) (*models.Cart, error) {
	uid, err := parseId(userId)

	if err != nil {
		return nil, ErrUserNotFound
	}

	bid, err := parseId(bookId)

	if err != nil {
		return nil, ErrBookNotFound
	}

	carts := s.db.Collection(collectionCarts)
	ts := now()

	res, err := carts.UpdateOne(ctx,
		bson.M{"userId": uid, "items.bookId": bid},
		bson.M{"$inc": bson.M{"items.$.quantity": quantity}, "$set": bson.M{"updatedAt": ts}},
	)

	if err != nil {
		return nil, fmt.Errorf("error updating cart: %w", err)
	}

	if res.MatchedCount == 0 {
		_, err = carts.UpdateOne(ctx,
			bson.M{"userId": uid},
			bson.M{
				"$push":        bson.M{"items": models.LineItem{Book_id: bid, Quantity: quantity}},
				"$set":         bson.M{"updatedAt": ts},
				"$setOnInsert": bson.M{"createdAt": ts},
			},
			options.Update().SetUpsert(true),
		)

		if err != nil {
			return nil, fmt.Errorf("error adding item to cart: %w", err)
		}
	}

	return s.GetCart(ctx, userId)
}

func (s *MongoStore) SetCartItemQuantity(ctx context.Context, userId string, bookId string, quantity int) (*models.Cart, error) {
	uid, err := parseId(userId)

	if err != nil {
		return nil, ErrUserNotFound
	}

	bid, err := parseId(bookId)

	if err != nil {
		return nil, ErrCartItemNotFound
	}

	var cart models.Cart

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = s.db.Collection(collectionCarts).FindOneAndUpdate(ctx,
		bson.M{"userId": uid, "items.bookId": bid},
		bson.M{"$set": bson.M{"items.$.quantity": quantity, "updatedAt": now()}},
		opts,
	).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("error updating cart item: %w", err)
	}

	return &cart, nil
}

func (s *MongoStore) RemoveFromCart(ctx context.Context, userId string, bookId string) (*models.Cart, error) {
	uid, err := parseId(userId)

	if err != nil {
		return nil, ErrUserNotFound
	}

	bid, err := parseId(bookId)

	if err != nil {
		return nil, ErrCartItemNotFound
	}

	var cart models.Cart

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = s.db.Collection(collectionCarts).FindOneAndUpdate(ctx,
		bson.M{"userId": uid},
		bson.M{"$pull": bson.M{"items": bson.M{"bookId": bid}}, "$set": bson.M{"updatedAt": now()}},
		opts,
	).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("error removing cart item: %w", err)
	}

	if cart.Items == nil {
		cart.Items = []models.LineItem{}
	}

	return &cart, nil
}
