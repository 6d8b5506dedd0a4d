package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/scalescape/stale/store/cloud"
)

const cutoffLayout = "2006-01-02"

var ErrInvalidCutoff = errors.New("invalid cutoff date")

// ParseCutoff reads a YYYY-MM-DD date into the naive midnight timestamp the
// recency checks compare against.
func ParseCutoff(v string) (time.Time, error) {
	cutoff, err := time.Parse(cutoffLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s, expected YYYY-MM-DD", ErrInvalidCutoff, v)
	}
	return cutoff, nil
}

// Result describes one bucket judged unmodified since the cutoff.
type Result struct {
	Name         string
	Created      time.Time
	LastModified time.Time
	Location     string
	StorageClass string
}

type Status int

const (
	Unmodified Status = iota
	Excluded
	Failed
)

// Outcome is the classification of a single bucket scan. Exactly one is
// produced per scanned bucket: Unmodified carries a Result, Excluded a
// reason, Failed the error that stopped the check.
type Outcome struct {
	Bucket string
	Status Status
	Result Result
	Reason string
	Err    error
}

type Scanner struct {
	store cloud.Store
	log   zerolog.Logger
}

func NewScanner(log zerolog.Logger, store cloud.Store) Scanner {
	return Scanner{store: store, log: log}
}

// Check applies the three-tier recency test to one bucket: bucket creation
// time, bucket metadata update time, then every object's last-modified time.
// The first timestamp strictly after the cutoff excludes the bucket; the
// object walk stops at the first offender.
func (s Scanner) Check(ctx context.Context, name string, cutoff time.Time) Outcome {
	bucket, err := s.store.GetBucket(ctx, name)
	if err != nil {
		return Outcome{Bucket: name, Status: Failed, Err: fmt.Errorf("fetching bucket metadata: %w", err)}
	}
	if naive(bucket.Created).After(cutoff) {
		return Outcome{Bucket: name, Status: Excluded, Reason: "created after cutoff"}
	}
	if !bucket.Updated.IsZero() && naive(bucket.Updated).After(cutoff) {
		return Outcome{Bucket: name, Status: Excluded, Reason: "metadata updated after cutoff"}
	}
	var modified string
	err = s.store.WalkObjects(ctx, name, func(o cloud.Object) bool {
		if naive(o.Updated).After(cutoff) {
			modified = o.Name
			return false
		}
		return true
	})
	if err != nil {
		return Outcome{Bucket: name, Status: Failed, Err: fmt.Errorf("listing objects: %w", err)}
	}
	if modified != "" {
		return Outcome{Bucket: name, Status: Excluded, Reason: fmt.Sprintf("object %s modified after cutoff", modified)}
	}
	s.log.Trace().Str("bucket", name).Msgf("no activity after cutoff")
	last := bucket.Updated
	if last.IsZero() {
		last = bucket.Created
	}
	res := Result{
		Name:         bucket.Name,
		Created:      bucket.Created,
		LastModified: last,
		Location:     bucket.Location,
		StorageClass: bucket.StorageClass,
	}
	return Outcome{Bucket: name, Status: Unmodified, Result: res}
}

// naive strips the zone and keeps the wall clock, so timestamps compare the
// way the provider displays them rather than as absolute instants.
func naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
