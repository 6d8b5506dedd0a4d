package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/scalescape/stale/store/cloud"
)

type StorageClient struct {
	client *s3.Client
	region string

	mu      *sync.Mutex
	created map[string]time.Time
}

type Config struct {
	CredentialsFile string
}

type ServiceAccount struct {
	AccessKeyID     string `json:"accessKey"`
	SecretAccessKey string `json:"secretKey"`
	Region          string `json:"region"`
}

func (s StorageClient) ListBuckets(ctx context.Context) ([]string, error) {
	resp, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}
	names := make([]string, 0, len(resp.Buckets))
	s.mu.Lock()
	for _, b := range resp.Buckets {
		names = append(names, aws.ToString(b.Name))
		s.created[aws.ToString(b.Name)] = aws.ToTime(b.CreationDate)
	}
	s.mu.Unlock()
	return names, nil
}

func (s StorageClient) GetBucket(ctx context.Context, name string) (cloud.Bucket, error) {
	s.mu.Lock()
	created, ok := s.created[name]
	s.mu.Unlock()
	if !ok {
		if _, err := s.ListBuckets(ctx); err != nil {
			return cloud.Bucket{}, err
		}
		s.mu.Lock()
		created, ok = s.created[name]
		s.mu.Unlock()
		if !ok {
			return cloud.Bucket{}, fmt.Errorf("%s: %w", name, cloud.ErrBucketNotFound)
		}
	}
	loc, err := s.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: aws.String(name)})
	if err != nil {
		return cloud.Bucket{}, fmt.Errorf("failed to get bucket location: %w", err)
	}
	region := string(loc.LocationConstraint)
	if region == "" {
		region = "us-east-1"
	}
	// S3 tracks no bucket-level metadata update time, so Updated stays zero.
	b := cloud.Bucket{
		Name:         name,
		Created:      created,
		Location:     region,
		StorageClass: string(types.StorageClassStandard),
	}
	return b, nil
}

func (s StorageClient) WalkObjects(ctx context.Context, bucket string, walk func(cloud.Object) bool) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to get object list: %w", err)
		}
		for _, item := range page.Contents {
			o := cloud.Object{Name: aws.ToString(item.Key), Bucket: bucket, Updated: aws.ToTime(item.LastModified)}
			if !walk(o) {
				return nil
			}
		}
	}
	return nil
}

func NewStore(ctx context.Context, acfg Config) (StorageClient, error) {
	data, err := os.ReadFile(acfg.CredentialsFile)
	if err != nil {
		return StorageClient{}, fmt.Errorf("failed to read service account file with error %v %w", err, cloud.ErrNoCredentials)
	}
	sa := new(ServiceAccount)
	if err := json.Unmarshal(data, sa); err != nil {
		return StorageClient{}, fmt.Errorf("unable to parse service account file: %w", err)
	}
	cp := credentials.NewStaticCredentialsProvider(sa.AccessKeyID, sa.SecretAccessKey, "")
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(sa.Region), config.WithCredentialsProvider(cp))
	if err != nil {
		return StorageClient{}, err
	}
	cli := s3.NewFromConfig(cfg)
	return StorageClient{client: cli, region: sa.Region, mu: new(sync.Mutex), created: make(map[string]time.Time)}, nil
}
