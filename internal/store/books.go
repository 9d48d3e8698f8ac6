package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/oseayemenre/bookstore/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrBookNotFound                      = errors.New("book not found")
	ErrShouldAtLeasePassOneFieldToUpdate = errors.New("one field at least is required to update")
)

func (s *MongoStore) CreateBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	if book.Reviews == nil {
		book.Reviews = []models.Review{}
	}

	res, err := s.db.Collection(collectionBooks).InsertOne(ctx, book)

	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("error inserting book: %w", err)
	}

	id := res.InsertedID.(primitive.ObjectID)
	book.Id = id

	return id, nil
}

func (s *MongoStore) GetBook(ctx context.Context, id string) (*models.Book, error) {
	oid, err := parseId(id)

	if err != nil {
		return nil, ErrBookNotFound
	}

	var book models.Book

	if err := s.db.Collection(collectionBooks).FindOne(ctx, bson.M{"_id": oid}).Decode(&book); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("error retrieving book: %w", err)
	}

	return &book, nil
}

func (s *MongoStore) findBooks(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Book, error) {
	cur, err := s.db.Collection(collectionBooks).Find(ctx, filter, opts...)

	if err != nil {
		return nil, fmt.Errorf("error querying books: %w", err)
	}

	books := []models.Book{}

	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("error decoding books: %w", err)
	}

	return books, nil
}

func (s *MongoStore) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	return s.findBooks(ctx, bson.M{})
}

func (s *MongoStore) GetFeaturedBooks(ctx context.Context, limit int64) ([]models.Book, error) {
	return s.findBooks(ctx, bson.M{"isFeatured": true}, options.Find().SetLimit(limit))
}

func (s *MongoStore) GetGenres(ctx context.Context) ([]string, error) {
	values, err := s.db.Collection(collectionBooks).Distinct(ctx, "genre", bson.M{"genre": bson.M{"$nin": bson.A{nil, ""}}})

	if err != nil {
		return nil, fmt.Errorf("error retrieving genres: %w", err)
	}

	genres := make([]string, 0, len(values))

	for _, v := range values {
		if g, ok := v.(string); ok {
			genres = append(genres, g)
		}
	}

	return genres, nil
}

// GetBooksByGenre matches the genre case-insensitively. The input is quoted
// so it is never interpreted as a pattern.
func (s *MongoStore) GetBooksByGenre(ctx context.Context, genre string) ([]models.Book, error) {
	pattern := "^" + regexp.QuoteMeta(genre) + "$"

	return s.findBooks(ctx, bson.M{"genre": primitive.Regex{Pattern: pattern, Options: "i"}})
}

func (s *MongoStore) GetSimilarBooks(ctx context.Context, book *models.Book, limit int64) ([]models.Book, error) {
	or := bson.A{}

	if book.Genre != "" {
		or = append(or, bson.M{"genre": book.Genre})
	}

	if book.Author != "" {
		or = append(or, bson.M{"author": book.Author})
	}

	if len(or) == 0 {
		return []models.Book{}, nil
	}

	filter := bson.M{
		"_id": bson.M{"$ne": book.Id},
		"$or": or,
	}

	return s.findBooks(ctx, filter, options.Find().SetLimit(limit))
}

func (s *MongoStore) UpdateBook(ctx context.Context, id string, update *models.BookUpdate) (*models.Book, error) {
	oid, err := parseId(id)

	if err != nil {
		return nil, ErrBookNotFound
	}

	set := bson.M{}

	if update.Title != nil {
		set["title"] = *update.Title
	}

	if update.Author != nil {
		set["author"] = *update.Author
	}

	if update.Price != nil {
		set["price"] = *update.Price
	}

	if update.Genre != nil {
		set["genre"] = *update.Genre
	}

	if update.Image_url != nil {
		set["imageUrl"] = *update.Image_url
	}

	if update.Description != nil {
		set["description"] = *update.Description
	}

	if update.Stock != nil {
		set["stock"] = *update.Stock
	}

	if update.Publication_year != nil {
		set["publicationYear"] = *update.Publication_year
	}

	if update.Is_featured != nil {
		set["isFeatured"] = *update.Is_featured
	}

	if len(set) == 0 {
		return nil, ErrShouldAtLeasePassOneFieldToUpdate
	}

	var book models.Book

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	if err := s.db.Collection(collectionBooks).FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&book); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("error updating book: %w", err)
	}

	return &book, nil
}

func (s *MongoStore) DeleteBook(ctx context.Context, id string) error {
	oid, err := parseId(id)

	if err != nil {
		return ErrBookNotFound
	}

	res, err := s.db.Collection(collectionBooks).DeleteOne(ctx, bson.M{"_id": oid})

	if err != nil {
		return fmt.Errorf("error deleting book: %w", err)
	}

	if res.DeletedCount == 0 {
		return ErrBookNotFound
	}

	return nil
}

func (s *MongoStore) AddReview(ctx context.Context, bookId string, review *models.Review) error {
	oid, err := parseId(bookId)

	if err != nil {
		return ErrBookNotFound
	}

	review.Created_at = now()

	res, err := s.db.Collection(collectionBooks).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"reviews": review}})

	if err != nil {
		return fmt.Errorf("error adding review: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrBookNotFound
	}

	return nil
}

// DecrementStock takes quantity units only if at least that many remain.
// It reports false when the book is missing or short on stock.
func (s *MongoStore) DecrementStock(ctx context.Context, bookId primitive.ObjectID, quantity int) (bool, error) {
	filter := bson.M{"_id": bookId, "stock": bson.M{"$gte": quantity}}

	res, err := s.db.Collection(collectionBooks).UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"stock": -quantity}})

	if err != nil {
		return false, fmt.Errorf("error decrementing stock: %w", err)
	}

	return res.MatchedCount == 1, nil
}

func (s *MongoStore) IncrementStock(ctx context.Context, bookId primitive.ObjectID, quantity int) error {
	res, err := s.db.Collection(collectionBooks).UpdateOne(ctx, bson.M{"_id": bookId}, bson.M{"$inc": bson.M{"stock": quantity}})

	if err != nil {
		return fmt.Errorf("error incrementing stock: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrBookNotFound
	}

	return nil
}
