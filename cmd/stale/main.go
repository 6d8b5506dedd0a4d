package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/scalescape/stale/config"
	"github.com/scalescape/stale/report"
	"github.com/scalescape/stale/scan"
	"github.com/scalescape/stale/store"
	"github.com/scalescape/stale/store/cloud"
)

func main() {
	log.Logger = log.Output(zerolog.NewConsoleWriter())
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cli.VersionPrinter = VersionDisplay

	app := &cli.App{
		Name:      "stale",
		Usage:     "find cloud storage buckets with no activity since a cutoff date",
		Version:   version,
		ArgsUsage: "<project-id> <cutoff-date:YYYY-MM-DD>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name: "output", Aliases: []string{"o"},
				Usage: "output xlsx file",
				Value: report.DefaultOutput,
			},
			&cli.IntFlag{
				Name: "max-workers", Aliases: []string{"w"},
				Usage: "maximum number of concurrent bucket scans",
				Value: scan.DefaultWorkers,
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "cloud provider [gcp|aws]",
				Value: string(cloud.GCP),
			},
			&cli.StringFlag{
				Name: "level", Aliases: []string{"l"},
				Usage:       "set log level",
				DefaultText: "info",
				Action: func(ctx *cli.Context, v string) error {
					level := zerolog.InfoLevel
					if lev, err := zerolog.ParseLevel(v); err == nil {
						level = lev
					}
					zerolog.SetGlobalLevel(level)
					return nil
				},
			},
		},
		Action: scanAction,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Msgf("error: %v", err)
	}
}

func scanAction(cctx *cli.Context) error {
	req, err := parseScanRequest(cctx)
	if errors.Is(err, scan.ErrInvalidCutoff) {
		log.Error().Msgf("%v", err)
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Msgf("searching for unmodified buckets in project %s since %s", req.ProjectID, cctx.Args().Get(1))

	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	st, err := store.New(cctx.Context, store.Config{
		Provider:          req.Provider,
		ProjectID:         req.ProjectID,
		GoogleCredentials: cfg.Google.ApplicationCredentials,
		AWSCredentials:    cfg.AWS.ApplicationCredentials,
	})
	if errors.Is(err, cloud.ErrNoCredentials) {
		return fmt.Errorf("unable to find local credentials, please run 'gcloud auth application-default login': %w", err)
	}
	if err != nil {
		return fmt.Errorf("error building storage client: %w", err)
	}

	coord := scan.NewCoordinator(log.With().Str("cmd", "scan").Logger(), st, req.MaxWorkers)
	results := coord.Run(cctx.Context, req.Cutoff)
	if len(results) == 0 {
		log.Info().Msgf("no unmodified buckets found")
		return nil
	}
	w := report.NewWriter(log.With().Str("cmd", "report").Logger())
	if err := w.Write(results, req.Output); err != nil {
		log.Error().Msgf("error writing report: %v", err)
		return nil
	}
	log.Info().Msgf("found %d unmodified buckets", len(results))
	return nil
}
