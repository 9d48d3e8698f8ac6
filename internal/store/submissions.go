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
	ErrSubmissionNotFound        = errors.New("submission not found")
	ErrSubmissionApproved        = errors.New("approved submissions cannot be modified")
	ErrSubmissionAlreadyReviewed = errors.New("submission has already been reviewed")
)

func (s *MongoStore) CreateSubmission(ctx context.Context, submission *models.Submission) (primitive.ObjectID, error) {
	submission.Created_at = now()
	submission.Updated_at = submission.Created_at

	if submission.Submission_date.IsZero() {
		submission.Submission_date = submission.Created_at
	}

	if submission.Status == "" {
		submission.Status = models.SubmissionStatusPending
	}

	res, err := s.db.Collection(collectionSubmissions).InsertOne(ctx, submission)

	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("error inserting submission: %w", err)
	}

	id := res.InsertedID.(primitive.ObjectID)
	submission.Id = id

	return id, nil
}

func (s *MongoStore) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	oid, err := parseId(id)

	if err != nil {
		return nil, ErrSubmissionNotFound
	}

	var submission models.Submission

	if err := s.db.Collection(collectionSubmissions).FindOne(ctx, bson.M{"_id": oid}).Decode(&submission); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error retrieving submission: %w", err)
	}

	return &submission, nil
}

func (s *MongoStore) findSubmissions(ctx context.Context, filter bson.M) ([]models.Submission, error) {
	cur, err := s.db.Collection(collectionSubmissions).Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))

	if err != nil {
		return nil, fmt.Errorf("error querying submissions: %w", err)
	}

	submissions := []models.Submission{}

	if err := cur.All(ctx, &submissions); err != nil {
		return nil, fmt.Errorf("error decoding submissions: %w", err)
	}

	return submissions, nil
}

func (s *MongoStore) GetSubmissionsByUser(ctx context.Context, userId string) ([]models.Submission, error) {
	uid, err := parseId(userId)

	if err != nil {
		return []models.Submission{}, nil
	}

	return s.findSubmissions(ctx, bson.M{"submittedBy": uid})
}

func (s *MongoStore) GetAllSubmissions(ctx context.Context) ([]models.Submission, error) {
	return s.findSubmissions(ctx, bson.M{})
}

// UpdateSubmission applies the non-nil fields of update. Approved submissions
// are frozen.
func (s *MongoStore) UpdateSubmission(ctx context.Context, id string, update *models.SubmissionUpdate) (*models.Submission, error) {
	oid, err := parseId(id)

	if err != nil {
		return nil, ErrSubmissionNotFound
	}

	set := bson.M{"updatedAt": now()}

	if update.Title != nil {
		set["title"] = *update.Title
	}

	if update.Synopsis != nil {
		set["synopsis"] = *update.Synopsis
	}

	if update.Genre != nil {
		set["genre"] = *update.Genre
	}

	if update.Cover_url != nil {
		set["coverUrl"] = *update.Cover_url
	}

	if update.Manuscript_url != nil {
		set["manuscriptUrl"] = *update.Manuscript_url
	}

	if update.Notes != nil {
		set["notes"] = *update.Notes
	}

	var submission models.Submission

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = s.db.Collection(collectionSubmissions).FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": bson.M{"$ne": models.SubmissionStatusApproved}},
		bson.M{"$set": set},
		opts,
	).Decode(&submission)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, s.submissionMissOrApproved(ctx, id)
		}
		return nil, fmt.Errorf("error updating submission: %w", err)
	}

	return &submission, nil
}

func (s *MongoStore) DeleteSubmission(ctx context.Context, id string) error {
	oid, err := parseId(id)

	if err != nil {
		return ErrSubmissionNotFound
	}

	res, err := s.db.Collection(collectionSubmissions).DeleteOne(ctx, bson.M{
		"_id":    oid,
		"status": bson.M{"$ne": models.SubmissionStatusApproved},
	})

	if err != nil {
		return fmt.Errorf("error deleting submission: %w", err)
	}

	if res.DeletedCount == 0 {
		return s.submissionMissOrApproved(ctx, id)
	}

	return nil
}

func (s *MongoStore) submissionMissOrApproved(ctx context.Context, id string) error {
	if _, err := s.GetSubmission(ctx, id); err != nil {
		return err
	}

	return ErrSubmissionApproved
}

// ClaimSubmissionReview moves a Pending submission to status. Only one
// reviewer can win the claim.
func (s *MongoStore) ClaimSubmissionReview(ctx context.Context, id string, status string) (*models.Submission, error) {
	oid, err := parseId(id)

	if err != nil {
		return nil, ErrSubmissionNotFound
	}

	var submission models.Submission

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = s.db.Collection(collectionSubmissions).FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": models.SubmissionStatusPending},
		bson.M{"$set": bson.M{"status": status, "updatedAt": now()}},
		opts,
	).Decode(&submission)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, getErr := s.GetSubmission(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrSubmissionAlreadyReviewed
		}
		return nil, fmt.Errorf("error claiming submission review: %w", err)
	}

	return &submission, nil
}

func (s *MongoStore) AttachSubmissionBook(ctx context.Context, id string, bookId primitive.ObjectID) (*models.Submission, error) {
	oid, err := parseId(id)

	if err != nil {
		return nil, ErrSubmissionNotFound
	}

	var submission models.Submission

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = s.db.Collection(collectionSubmissions).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"bookId": bookId, "updatedAt": now()}},
		opts,
	).Decode(&submission)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error attaching book to submission: %w", err)
	}

	return &submission, nil
}

func (s *MongoStore) RevertSubmissionReview(ctx context.Context, id string) error {
	oid, err := parseId(id)

	if err != nil {
		return ErrSubmissionNotFound
	}

	_, err = s.db.Collection(collectionSubmissions).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": models.SubmissionStatusPending, "updatedAt": now()}},
	)

	if err != nil {
		return fmt.Errorf("error reverting submission review: %w", err)
	}

	return nil
}
