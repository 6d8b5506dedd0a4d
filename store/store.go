package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/scalescape/stale/store/aws"
	"github.com/scalescape/stale/store/cloud"
	"github.com/scalescape/stale/store/google"
)

var ErrUnknownProvider = errors.New("unknown cloud provider")

type Config struct {
	Provider          cloud.Provider
	ProjectID         string
	GoogleCredentials string
	AWSCredentials    string
}

func New(ctx context.Context, cfg Config) (cloud.Store, error) {
	switch cfg.Provider {
	case cloud.GCP:
		return google.NewStore(ctx, google.Config{ProjectID: cfg.ProjectID, CredentialsFile: cfg.GoogleCredentials})
	case cloud.AWS:
		return aws.NewStore(ctx, aws.Config{CredentialsFile: cfg.AWSCredentials})
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
}
