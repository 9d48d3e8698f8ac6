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
	ErrUserNotFound   = errors.New("user not found")
	ErrUserExists     = errors.New("user with this username already exists")
	ErrAdminNotFound  = errors.New("admin not found")
	ErrAuthorNotFound = errors.New("author not found")
)

var userProjection = bson.M{"password": 0, "confirmpassword": 0}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	user.Created_at = now()
	user.Updated_at = user.Created_at

	if user.Wishlist == nil {
		user.Wishlist = []primitive.ObjectID{}
	}

	res, err := s.db.Collection(collectionUsers).InsertOne(ctx, user)

	if err != nil {
		if isDuplicateKey(err) {
			return primitive.NilObjectID, ErrUserExists
		}
		return primitive.NilObjectID, fmt.Errorf("error inserting user: %w", err)
	}

	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoStore) GetUserById(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseId(id)

	if err != nil {
		return nil, ErrUserNotFound
	}

	var user models.User

	if err := s.db.Collection(collectionUsers).FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

func (s *MongoStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	if err := s.db.Collection(collectionUsers).FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

func (s *MongoStore) UpdateUserProfile(ctx context.Context, id string, update *models.UserProfileUpdate) (*models.User, error) {
	oid, err := parseId(id)

	if err != nil {
		return nil, ErrUserNotFound
	}

	set := bson.M{"updatedAt": now()}

	if update.Username != nil {
		set["username"] = *update.Username
	}

	if update.Phoneno != nil {
		set["phoneno"] = *update.Phoneno
	}

	if update.Address != nil {
		set["address"] = *update.Address
	}

	if update.Password != nil {
		set["password"] = *update.Password
	}

	var user models.User

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(userProjection)

	if err := s.db.Collection(collectionUsers).FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		if isDuplicateKey(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return &user, nil
}

func (s *MongoStore) GetAllUsers(ctx context.Context) ([]models.User, error) {
	cur, err := s.db.Collection(collectionUsers).Find(ctx, bson.M{}, options.Find().SetProjection(userProjection).SetSort(bson.M{"createdAt": -1}))

	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}

	users := []models.User{}

	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}

	return users, nil
}

func (s *MongoStore) ToggleUserBlocked(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseId(id)

	if err != nil {
		return nil, ErrUserNotFound
	}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"isBlocked": bson.M{"$not": bson.A{"$isBlocked"}},
			"updatedAt": now(),
		}}},
	}

	var user models.User

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(userProjection)

	if err := s.db.Collection(collectionUsers).FindOneAndUpdate(ctx, bson.M{"_id": oid}, pipeline, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error toggling user block: %w", err)
	}

	return &user, nil
}

func (s *MongoStore) SetUserBlocked(ctx context.Context, id string, blocked bool) (*models.User, error) {
	oid, err := parseId(id)

	if err != nil {
		return nil, ErrUserNotFound
	}

	var user models.User

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(userProjection)

	update := bson.M{"$set": bson.M{"isBlocked": blocked, "updatedAt": now()}}

	if err := s.db.Collection(collectionUsers).FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating user block: %w", err)
	}

	return &user, nil
}

func (s *MongoStore) AddToWishlist(ctx context.Context, userId string, bookId string) ([]primitive.ObjectID, error) {
	uid, err := parseId(userId)

	if err != nil {
		return nil, ErrUserNotFound
	}

	bid, err := parseId(bookId)

	if err != nil {
		return nil, err
	}

	var user models.User

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(bson.M{"wishlist": 1})

	if err := s.db.Collection(collectionUsers).FindOneAndUpdate(ctx, bson.M{"_id": uid}, bson.M{"$addToSet": bson.M{"wishlist": bid}}, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error adding to wishlist: %w", err)
	}

	return user.Wishlist, nil
}

func (s *MongoStore) RemoveFromWishlist(ctx context.Context, userId string, bookId string) (bool, error) {
	uid, err := parseId(userId)

	if err != nil {
		return false, ErrUserNotFound
	}

	bid, err := parseId(bookId)

	if err != nil {
		return false, err
	}

	res, err := s.db.Collection(collectionUsers).UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$pull": bson.M{"wishlist": bid}})

	if err != nil {
		return false, fmt.Errorf("error removing from wishlist: %w", err)
	}

	if res.MatchedCount == 0 {
		return false, ErrUserNotFound
	}

	return res.ModifiedCount > 0, nil
}

func (s *MongoStore) GetWishlistBooks(ctx context.Context, userId string) ([]models.Book, error) {
	user, err := s.GetUserById(ctx, userId)

	if err != nil {
		return nil, err
	}

	books := []models.Book{}

	if len(user.Wishlist) == 0 {
		return books, nil
	}

	cur, err := s.db.Collection(collectionBooks).Find(ctx, bson.M{"_id": bson.M{"$in": user.Wishlist}})

	if err != nil {
		return nil, fmt.Errorf("error querying wishlist books: %w", err)
	}

	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("error decoding wishlist books: %w", err)
	}

	return books, nil
}

func (s *MongoStore) CreateAdmin(ctx context.Context, admin *models.Admin) (primitive.ObjectID, error) {
	res, err := s.db.Collection(collectionAdmins).InsertOne(ctx, admin)

	if err != nil {
		if isDuplicateKey(err) {
			return primitive.NilObjectID, ErrUserExists
		}
		return primitive.NilObjectID, fmt.Errorf("error inserting admin: %w", err)
	}

	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoStore) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin

	if err := s.db.Collection(collectionAdmins).FindOne(ctx, bson.M{"username": username}).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}

	return &admin, nil
}

func (s *MongoStore) CreateAuthor(ctx context.Context, author *models.Author) (primitive.ObjectID, error) {
	author.Created_at = now()

	res, err := s.db.Collection(collectionAuthors).InsertOne(ctx, author)

	if err != nil {
		if isDuplicateKey(err) {
			return primitive.NilObjectID, ErrUserExists
		}
		return primitive.NilObjectID, fmt.Errorf("error inserting author: %w", err)
	}

	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoStore) GetAuthorByUsername(ctx context.Context, username string) (*models.Author, error) {
	var author models.Author

	if err := s.db.Collection(collectionAuthors).FindOne(ctx, bson.M{"username": username}).Decode(&author); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("error retrieving author: %w", err)
	}

	return &author, nil
}
