package store

import (
	"context"
	"fmt"

	"github.com/oseayemenre/bookstore/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

// GetDashboardStats runs the four counts concurrently.
func (s *MongoStore) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	g, ctx := errgroup.WithContext(ctx)

	count := func(collection string, filter bson.M, dst *int64) func() error {
		return func() error {
			n, err := s.db.Collection(collection).CountDocuments(ctx, filter)

			if err != nil {
				return fmt.Errorf("error counting %s: %w", collection, err)
			}

			*dst = n
			return nil
		}
	}

	g.Go(count(collectionBooks, bson.M{}, &stats.Total_books))
	g.Go(count(collectionUsers, bson.M{"isBlocked": bson.M{"$ne": true}}, &stats.Active_users))
	g.Go(count(collectionOrders, bson.M{"status": models.OrderStatusPending}, &stats.Pending_orders))
	g.Go(count(collectionSubmissions, bson.M{}, &stats.Submitted_manuscripts))

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats, nil
}
