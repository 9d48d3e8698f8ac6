package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/oseayemenre/bookstore/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderStatusConflict = errors.New("order status changed concurrently")
	ErrDuplicatePayment    = errors.New("order for this payment already exists")
)

func (s *MongoStore) CreateOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	order.Created_at = now()
	order.Updated_at = order.Created_at

	res, err := s.db.Collection(collectionOrders).InsertOne(ctx, order)

	if err != nil {
		if isDuplicateKey(err) {
			return primitive.NilObjectID, ErrDuplicatePayment
		}
		return primitive.NilObjectID, fmt.Errorf("error inserting order: %w", err)
	}

	id := res.InsertedID.(primitive.ObjectID)
	order.Id = id

	return id, nil
}

func (s *MongoStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	oid, err := parseId(id)

	if err != nil {
		return nil, ErrOrderNotFound
	}

	return s.findOrder(ctx, bson.M{"_id": oid})
}

func (s *MongoStore) GetOrderByPaymentId(ctx context.Context, paymentId string) (*models.Order, error) {
	return s.findOrder(ctx, bson.M{"razorpayPaymentId": paymentId})
}

func (s *MongoStore) findOrder(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order

	if err := s.db.Collection(collectionOrders).FindOne(ctx, filter).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("error retrieving order: %w", err)
	}

	return &order, nil
}

func (s *MongoStore) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cur, err := s.db.Collection(collectionOrders).Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))

	if err != nil {
		return nil, fmt.Errorf("error querying orders: %w", err)
	}

	orders := []models.Order{}

	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("error decoding orders: %w", err)
	}

	return orders, nil
}

func (s *MongoStore) GetOrdersByUser(ctx context.Context, userId string) ([]models.Order, error) {
	uid, err := parseId(userId)

	if err != nil {
		return []models.Order{}, nil
	}

	return s.findOrders(ctx, bson.M{"userId": uid})
}

func (s *MongoStore) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{})
}

// UpdateOrderStatus moves an order from one status to another. The write only
// lands if the order is still in the from status.
func (s *MongoStore) UpdateOrderStatus(ctx context.Context, id string, from string, to string) (*models.Order, error) {
	oid, err := parseId(id)

	if err != nil {
		return nil, ErrOrderNotFound
	}

	var order models.Order

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = s.db.Collection(collectionOrders).FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": now()}},
		opts,
	).Decode(&order)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, getErr := s.GetOrder(ctx, id); errors.Is(getErr, ErrOrderNotFound) {
				return nil, ErrOrderNotFound
			}
			return nil, ErrOrderStatusConflict
		}
		return nil, fmt.Errorf("error updating order status: %w", err)
	}

	return &order, nil
}
