package store

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type ObjectStore interface {
	UploadFile(ctx context.Context, file io.Reader, id string) (string, error)
}

type LocalStore struct {
	dir  string
	host string
}

func NewLocalStore(dir string, host string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating uploads dir: %v", err)
	}

	return &LocalStore{
		dir:  dir,
		host: strings.TrimRight(host, "/"),
	}, nil
}

func (s *LocalStore) UploadFile(ctx context.Context, file io.Reader, id string) (string, error) {
	name := filepath.Base(filepath.Clean("/" + id))

	if name == "/" || name == "." {
		return "", fmt.Errorf("invalid object id: %q", id)
	}

	f, err := os.Create(filepath.Join(s.dir, name))

	if err != nil {
		return "", fmt.Errorf("error creating file: %v", err)
	}

	defer f.Close()

	if _, err := io.Copy(f, file); err != nil {
		return "", fmt.Errorf("error writing file: %v", err)
	}

	return s.host + "/uploads/" + url.PathEscape(name), nil
}

type CloudinaryStore struct {
	store  *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(store *cloudinary.Cloudinary) *CloudinaryStore {
	return &CloudinaryStore{
		store:  store,
		folder: "bookstore",
	}
}

func (s *CloudinaryStore) UploadFile(ctx context.Context, file io.Reader, id string) (string, error) {
	resp, err := s.store.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     id,
		Folder:       s.folder,
		ResourceType: "auto",
	})

	if err != nil {
		return "", fmt.Errorf("error uploading file: %+v", err)
	}

	if resp.Error.Message != "" {
		return "", fmt.Errorf("error uploading file: %s", resp.Error.Message)
	}

	return resp.SecureURL, nil
}

type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Store(client *s3.Client, bucket string, region string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		region: region,
	}
}

func (s *S3Store) UploadFile(ctx context.Context, file io.Reader, id string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
		Body:   file,
	})

	if err != nil {
		return "", fmt.Errorf("error uploading object to s3: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, url.PathEscape(id)), nil
}
