package cloud

import (
	"context"
	"errors"
	"time"
)

type Provider string

const (
	GCP Provider = "gcp"
	AWS Provider = "aws"
)

var (
	ErrNoCredentials  = errors.New("no valid local credentials")
	ErrBucketNotFound = errors.New("bucket not found")
)

// Bucket holds the provider-reported metadata of a storage bucket. A zero
// Updated means the provider never recorded a metadata change.
type Bucket struct {
	Name         string    `json:"name"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
	Location     string    `json:"location"`
	StorageClass string    `json:"storage_class"`
}

type Object struct {
	Name    string    `json:"name"`
	Bucket  string    `json:"bucket"`
	Updated time.Time `json:"updated"`
}

// Store is the provider contract the scanner runs against. Implementations
// must be safe for concurrent use by multiple goroutines.
type Store interface {
	ListBuckets(ctx context.Context) ([]string, error)
	GetBucket(ctx context.Context, name string) (Bucket, error)
	WalkObjects(ctx context.Context, bucket string, walk func(Object) bool) error
}
