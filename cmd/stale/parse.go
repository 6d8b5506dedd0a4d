package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/scalescape/stale/scan"
	"github.com/scalescape/stale/store"
	"github.com/scalescape/stale/store/cloud"
)

var ErrInvalidArguments = errors.New("invalid arguments")

type scanRequest struct {
	ProjectID  string
	Cutoff     time.Time
	Output     string
	MaxWorkers int
	Provider   cloud.Provider
}

func parseScanRequest(cctx *cli.Context) (scanRequest, error) {
	if cctx.NArg() < 2 {
		return scanRequest{}, fmt.Errorf("%w: expected <project-id> <cutoff-date>", ErrInvalidArguments)
	}
	cutoff, err := scan.ParseCutoff(cctx.Args().Get(1))
	if err != nil {
		return scanRequest{}, err
	}
	req := scanRequest{
		ProjectID:  cctx.Args().Get(0),
		Cutoff:     cutoff,
		Output:     cctx.String("output"),
		MaxWorkers: cctx.Int("max-workers"),
	}
	switch p := cloud.Provider(cctx.String("provider")); p {
	case cloud.GCP, cloud.AWS:
		req.Provider = p
	default:
		return scanRequest{}, fmt.Errorf("%w: %s", store.ErrUnknownProvider, p)
	}
	return req, nil
}
