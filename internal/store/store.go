package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oseayemenre/bookstore/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionUsers         = "userdetails"
	collectionAdmins        = "admins"
	collectionAuthors       = "authordetails"
	collectionBooks         = "bookdetails"
	collectionCarts         = "carts"
	collectionOrders        = "orderbooks"
	collectionSubmissions   = "submissions"
	collectionNotifications = "notifications"
	collectionCaptchas      = "captchas"
)

var (
	ErrInvalidId = errors.New("invalid id")
)

type Store interface {
	CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	GetUserById(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id string, update *models.UserProfileUpdate) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	ToggleUserBlocked(ctx context.Context, id string) (*models.User, error)
	SetUserBlocked(ctx context.Context, id string, blocked bool) (*models.User, error)
	AddToWishlist(ctx context.Context, userId string, bookId string) ([]primitive.ObjectID, error)
	RemoveFromWishlist(ctx context.Context, userId string, bookId string) (bool, error)
	GetWishlistBooks(ctx context.Context, userId string) ([]models.Book, error)

	CreateAdmin(ctx context.Context, admin *models.Admin) (primitive.ObjectID, error)
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)

	CreateAuthor(ctx context.Context, author *models.Author) (primitive.ObjectID, error)
	GetAuthorByUsername(ctx context.Context, username string) (*models.Author, error)

	CreateBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error)
	GetBook(ctx context.Context, id string) (*models.Book, error)
	GetAllBooks(ctx context.Context) ([]models.Book, error)
	GetFeaturedBooks(ctx context.Context, limit int64) ([]models.Book, error)
	GetGenres(ctx context.Context) ([]string, error)
	GetBooksByGenre(ctx context.Context, genre string) ([]models.Book, error)
	GetSimilarBooks(ctx context.Context, book *models.Book, limit int64) ([]models.Book, error)
	UpdateBook(ctx context.Context, id string, update *models.BookUpdate) (*models.Book, error)
	DeleteBook(ctx context.Context, id string) error
	AddReview(ctx context.Context, bookId string, review *models.Review) error
	DecrementStock(ctx context.Context, bookId primitive.ObjectID, quantity int) (bool, error)
	IncrementStock(ctx context.Context, bookId primitive.ObjectID, quantity int) error

	GetCart(ctx context.Context, userId string) (*models.Cart, error)
	AddToCart(ctx context.Context, userId string, bookId string, quantity int) (*models.Cart, error)
	SetCartItemQuantity(ctx context.Context, userId string, bookId string, quantity int) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, userId string, bookId string) (*models.Cart, error)

	CreateOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderByPaymentId(ctx context.Context, paymentId string) (*models.Order, error)
	GetOrdersByUser(ctx context.Context, userId string) ([]models.Order, error)
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, from string, to string) (*models.Order, error)

	CreateSubmission(ctx context.Context, submission *models.Submission) (primitive.ObjectID, error)
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)
	GetSubmissionsByUser(ctx context.Context, userId string) ([]models.Submission, error)
	GetAllSubmissions(ctx context.Context) ([]models.Submission, error)
	UpdateSubmission(ctx context.Context, id string, update *models.SubmissionUpdate) (*models.Submission, error)
	DeleteSubmission(ctx context.Context, id string) error
	ClaimSubmissionReview(ctx context.Context, id string, status string) (*models.Submission, error)
	AttachSubmissionBook(ctx context.Context, id string, bookId primitive.ObjectID) (*models.Submission, error)
	RevertSubmissionReview(ctx context.Context, id string) error

	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)

	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetNotificationsByUser(ctx context.Context, userId string) ([]models.Notification, error)

	SaveCaptcha(ctx context.Context, captcha *models.Captcha) error
	ConsumeCaptcha(ctx context.Context, id string) (*models.Captcha, error)
}

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(ctx context.Context, uri string, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))

	if err != nil {
		return nil, fmt.Errorf("error connecting to db: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("error pinging db: %v", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(database),
	}, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionAdmins: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionAuthors: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionCarts: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionOrders: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{
				Keys: bson.D{{Key: "razorpayPaymentId", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{
					"razorpayPaymentId": bson.M{"$exists": true},
				}),
			},
		},
		collectionSubmissions: {
			{Keys: bson.D{{Key: "submittedBy", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		collectionNotifications: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		collectionCaptchas: {
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	}

	for collection, models := range indexes {
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("error creating %s indexes: %v", collection, err)
		}
	}

	return nil
}

func parseId(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", ErrInvalidId, id)
	}

	return oid, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
