package scan_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/scalescape/stale/scan"
	"github.com/scalescape/stale/store/cloud"
)

type mockStore struct {
	mock.Mock
	objects map[string][]cloud.Object
	offered map[string]int
}

func newMockStore() *mockStore {
	return &mockStore{
		objects: make(map[string][]cloud.Object),
		offered: make(map[string]int),
	}
}

func (m *mockStore) ListBuckets(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockStore) GetBucket(ctx context.Context, name string) (cloud.Bucket, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(cloud.Bucket), args.Error(1)
}

func (m *mockStore) WalkObjects(ctx context.Context, bucket string, walk func(cloud.Object) bool) error {
	args := m.Called(ctx, bucket)
	if err := args.Error(0); err != nil {
		return err
	}
	for _, o := range m.objects[bucket] {
		m.offered[bucket]++
		if !walk(o) {
			break
		}
	}
	return nil
}

type scannerSuite struct {
	suite.Suite
	store   *mockStore
	scanner scan.Scanner
	ctx     context.Context
	cutoff  time.Time
}

func (s *scannerSuite) SetupTest() {
	s.store = newMockStore()
	s.scanner = scan.NewScanner(zerolog.Nop(), s.store)
	s.ctx = context.Background()
	cutoff, err := scan.ParseCutoff("2024-06-01")
	require.NoError(s.T(), err)
	s.cutoff = cutoff
}

func (s *scannerSuite) TestShouldIncludeUntouchedEmptyBucket() {
	created := time.Date(2024, 1, 10, 8, 30, 0, 0, time.UTC)
	bucket := cloud.Bucket{Name: "atlas-backup", Created: created, Location: "US-EAST1", StorageClass: "COLDLINE"}
	s.store.On("GetBucket", mock.Anything, "atlas-backup").Return(bucket, nil)
	s.store.On("WalkObjects", mock.Anything, "atlas-backup").Return(nil)

	out := s.scanner.Check(s.ctx, "atlas-backup", s.cutoff)

	require.Equal(s.T(), scan.Unmodified, out.Status)
	assert.Equal(s.T(), "atlas-backup", out.Result.Name)
	assert.Equal(s.T(), created, out.Result.Created)
	assert.Equal(s.T(), created, out.Result.LastModified)
	assert.Equal(s.T(), "US-EAST1", out.Result.Location)
	assert.Equal(s.T(), "COLDLINE", out.Result.StorageClass)
}

func (s *scannerSuite) TestShouldIncludeBucketCreatedExactlyAtCutoff() {
	bucket := cloud.Bucket{Name: "edge", Created: s.cutoff}
	s.store.On("GetBucket", mock.Anything, "edge").Return(bucket, nil)
	s.store.On("WalkObjects", mock.Anything, "edge").Return(nil)

	out := s.scanner.Check(s.ctx, "edge", s.cutoff)

	require.Equal(s.T(), scan.Unmodified, out.Status)
}

func (s *scannerSuite) TestShouldExcludeBucketCreatedAfterCutoff() {
	bucket := cloud.Bucket{Name: "fresh", Created: time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)}
	s.store.On("GetBucket", mock.Anything, "fresh").Return(bucket, nil)

	out := s.scanner.Check(s.ctx, "fresh", s.cutoff)

	require.Equal(s.T(), scan.Excluded, out.Status)
	s.store.AssertNotCalled(s.T(), "WalkObjects", mock.Anything, "fresh")
}

func (s *scannerSuite) TestShouldExcludeBucketUpdatedAfterCutoff() {
	bucket := cloud.Bucket{
		Name:    "tweaked",
		Created: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Updated: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	s.store.On("GetBucket", mock.Anything, "tweaked").Return(bucket, nil)

	out := s.scanner.Check(s.ctx, "tweaked", s.cutoff)

	require.Equal(s.T(), scan.Excluded, out.Status)
	s.store.AssertNotCalled(s.T(), "WalkObjects", mock.Anything, "tweaked")
}

func (s *scannerSuite) TestShouldExcludeBucketWithRecentObjectAndStopEarly() {
	bucket := cloud.Bucket{Name: "busy", Created: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}
	s.store.On("GetBucket", mock.Anything, "busy").Return(bucket, nil)
	s.store.On("WalkObjects", mock.Anything, "busy").Return(nil)
	s.store.objects["busy"] = []cloud.Object{
		{Name: "a.log", Bucket: "busy", Updated: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "b.log", Bucket: "busy", Updated: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)},
		{Name: "c.log", Bucket: "busy", Updated: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	out := s.scanner.Check(s.ctx, "busy", s.cutoff)

	require.Equal(s.T(), scan.Excluded, out.Status)
	assert.Equal(s.T(), 2, s.store.offered["busy"], "walk should stop at the first offending object")
}

func (s *scannerSuite) TestShouldReportMetadataUpdateAsLastModified() {
	created := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC)
	bucket := cloud.Bucket{Name: "settled", Created: created, Updated: updated}
	s.store.On("GetBucket", mock.Anything, "settled").Return(bucket, nil)
	s.store.On("WalkObjects", mock.Anything, "settled").Return(nil)

	out := s.scanner.Check(s.ctx, "settled", s.cutoff)

	require.Equal(s.T(), scan.Unmodified, out.Status)
	assert.Equal(s.T(), updated, out.Result.LastModified)
}

func (s *scannerSuite) TestShouldFailWhenBucketMetadataUnavailable() {
	permErr := errors.New("googleapi: Error 403: forbidden")
	s.store.On("GetBucket", mock.Anything, "locked").Return(cloud.Bucket{}, permErr)

	out := s.scanner.Check(s.ctx, "locked", s.cutoff)

	require.Equal(s.T(), scan.Failed, out.Status)
	require.ErrorIs(s.T(), out.Err, permErr)
}

func (s *scannerSuite) TestShouldFailWhenObjectListingBreaks() {
	bucket := cloud.Bucket{Name: "flaky", Created: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	listErr := errors.New("connection reset")
	s.store.On("GetBucket", mock.Anything, "flaky").Return(bucket, nil)
	s.store.On("WalkObjects", mock.Anything, "flaky").Return(listErr)

	out := s.scanner.Check(s.ctx, "flaky", s.cutoff)

	require.Equal(s.T(), scan.Failed, out.Status)
	require.ErrorIs(s.T(), out.Err, listErr)
}

func (s *scannerSuite) TestShouldCompareWallClockNotInstant() {
	// 04:00+05:30 on the cutoff day is 22:30 UTC the day before, so the
	// instant is inside the cutoff but the wall clock is not.
	ist := time.FixedZone("IST", 5*3600+1800)
	bucket := cloud.Bucket{Name: "zoned", Created: time.Date(2024, 6, 1, 4, 0, 0, 0, ist)}
	s.store.On("GetBucket", mock.Anything, "zoned").Return(bucket, nil)

	out := s.scanner.Check(s.ctx, "zoned", s.cutoff)

	require.Equal(s.T(), scan.Excluded, out.Status)
}

func TestScanner(t *testing.T) {
	suite.Run(t, new(scannerSuite))
}

func TestParseCutoff(t *testing.T) {
	cutoff, err := scan.ParseCutoff("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), cutoff)
}

func TestParseCutoffRejectsBadFormat(t *testing.T) {
	for _, v := range []string{"01-06-2024", "2024/06/01", "yesterday", ""} {
		_, err := scan.ParseCutoff(v)
		require.ErrorIs(t, err, scan.ErrInvalidCutoff, v)
	}
}
