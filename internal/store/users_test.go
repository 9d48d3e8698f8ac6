package store

import (
	"context"
	"errors"
	"testing"

	"github.com/oseayemenre/bookstore/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateUser(t *testing.T) {
	t.Run("should return an error if username is taken", func(t *testing.T) {
		db := setUpTestDb(t)

		if _, err := db.CreateUser(context.TODO(), &models.User{Username: "reader", Password: "hash"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := db.CreateUser(context.TODO(), &models.User{Username: "reader", Password: "hash"})

		if !errors.Is(err, ErrUserExists) {
			t.Fatalf("expected %v, got %v", ErrUserExists, err)
		}
	})

	t.Run("should find created user by username", func(t *testing.T) {
		db := setUpTestDb(t)

		id, err := db.CreateUser(context.TODO(), &models.User{Username: "reader", Password: "hash"})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		user, err := db.GetUserByUsername(context.TODO(), "reader")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if user.Id != id {
			t.Fatalf("expected %s, got %s", id.Hex(), user.Id.Hex())
		}
	})
}

func TestGetUserById(t *testing.T) {
	db := setUpTestDb(t)

	tests := []struct {
		name string
		id   string
	}{
		{name: "should return not found for malformed id", id: "not-an-id"},
		{name: "should return not found for unknown id", id: primitive.NewObjectID().Hex()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.GetUserById(context.TODO(), tt.id)

			if !errors.Is(err, ErrUserNotFound) {
				t.Fatalf("expected %v, got %v", ErrUserNotFound, err)
			}
		})
	}
}

func TestToggleUserBlocked(t *testing.T) {
	db := setUpTestDb(t)

	id, err := db.CreateUser(context.TODO(), &models.User{Username: "reader", Password: "hash"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []bool{true, false} {
		user, err := db.ToggleUserBlocked(context.TODO(), id.Hex())

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if user.Is_blocked != want {
			t.Fatalf("expected blocked=%v, got %v", want, user.Is_blocked)
		}
	}
}

func TestWishlist(t *testing.T) {
	db := setUpTestDb(t)

	uid, err := db.CreateUser(context.TODO(), &models.User{Username: "reader", Password: "hash"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bid, err := db.CreateBook(context.TODO(), &models.Book{Title: "Dune", Price: 10, Stock: 3})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 2; i++ {
		wishlist, err := db.AddToWishlist(context.TODO(), uid.Hex(), bid.Hex())

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(wishlist) != 1 {
			t.Fatalf("expected 1 wishlist entry, got %d", len(wishlist))
		}
	}

	books, err := db.GetWishlistBooks(context.TODO(), uid.Hex())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(books) != 1 || books[0].Title != "Dune" {
		t.Fatalf("expected wishlist to contain Dune, got %+v", books)
	}

	removed, err := db.RemoveFromWishlist(context.TODO(), uid.Hex(), bid.Hex())

	if err != nil || !removed {
		t.Fatalf("expected removal, got %v %v", removed, err)
	}

	removed, _ = db.RemoveFromWishlist(context.TODO(), uid.Hex(), bid.Hex())

	if removed {
		t.Fatalf("expected second removal to be a no-op")
	}
}
