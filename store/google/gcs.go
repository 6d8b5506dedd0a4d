package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/scalescape/stale/store/cloud"
)

// adcPath is where gcloud keeps the token obtained by
// 'gcloud auth application-default login'.
var adcPath = filepath.Join(".config", "gcloud", "application_default_credentials.json")

type StorageClient struct {
	*storage.Client
	projectID string
}

type Config struct {
	ProjectID       string
	CredentialsFile string
}

func (s StorageClient) ListBuckets(ctx context.Context) ([]string, error) {
	buckets := make([]string, 0)
	iter := s.Client.Buckets(ctx, s.projectID)
	for {
		attrs, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate bucket list: %w", err)
		}
		buckets = append(buckets, attrs.Name)
	}
	return buckets, nil
}

func (s StorageClient) GetBucket(ctx context.Context, name string) (cloud.Bucket, error) {
	attrs, err := s.Client.Bucket(name).Attrs(ctx)
	if errors.Is(err, storage.ErrBucketNotExist) {
		return cloud.Bucket{}, fmt.Errorf("%s: %w", name, cloud.ErrBucketNotFound)
	}
	if err != nil {
		return cloud.Bucket{}, fmt.Errorf("failed to get bucket attributes: %w", err)
	}
	b := cloud.Bucket{
		Name:         attrs.Name,
		Created:      attrs.Created,
		Updated:      attrs.Updated,
		Location:     attrs.Location,
		StorageClass: attrs.StorageClass,
	}
	return b, nil
}

// WalkObjects feeds every object in the bucket to walk until walk returns
// false or the listing is exhausted.
func (s StorageClient) WalkObjects(ctx context.Context, bucketName string, walk func(cloud.Object) bool) error {
	iter := s.Client.Bucket(bucketName).Objects(ctx, nil)
	for {
		attrs, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to iterate object list: %w", err)
		}
		o := cloud.Object{Name: attrs.Name, Bucket: attrs.Bucket, Updated: attrs.Updated}
		if !walk(o) {
			return nil
		}
	}
}

func credentialsFile(cfg Config) (string, error) {
	if cfg.CredentialsFile != "" {
		return cfg.CredentialsFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, adcPath), nil
}

func NewStore(ctx context.Context, cfg Config) (StorageClient, error) {
	path, err := credentialsFile(cfg)
	if err != nil {
		return StorageClient{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return StorageClient{}, fmt.Errorf("failed to read credentials file %s with error %v %w", path, err, cloud.ErrNoCredentials)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, storage.ScopeReadOnly)
	if err != nil {
		return StorageClient{}, fmt.Errorf("unable to parse credentials file with error %v %w", err, cloud.ErrNoCredentials)
	}
	client, err := storage.NewClient(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return StorageClient{}, fmt.Errorf("error creating gcp storage client: %w", err)
	}
	return StorageClient{Client: client, projectID: cfg.ProjectID}, nil
}
