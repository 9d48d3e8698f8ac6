package store

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// setUpTestDb connects to MONGO_TEST_URI and hands back a store bound to a
// throwaway database that is dropped when the test ends.
func setUpTestDb(t *testing.T) *MongoStore {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")

	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	name := "bookstore_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	s, err := NewMongoStore(ctx, uri, name)

	if err != nil {
		t.Fatalf("error connecting to db: %v", err)
	}

	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("error creating indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.db.Drop(ctx)
		s.Close(ctx)
	})

	return s
}
