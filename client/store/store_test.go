package store

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewru/hd-mobile/client"
)

type fakeAPI struct {
	mu sync.Mutex

	fetchReports []*client.Report
	fetchErr     error

	created    []*client.Report
	createErr  error
	confirmed  map[int64]bool
	confirmErr error
	deleted    []int64
	deleteErr  error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{confirmed: make(map[int64]bool)}
}

func (f *fakeAPI) FetchReports(ctx context.Context) ([]*client.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	// fresh copies, as a decoded response would be
	out := make([]*client.Report, len(f.fetchReports))
	for i, r := range f.fetchReports {
		cp := *r
		out[i] = &cp
	}
	return out, nil
}

func (f *fakeAPI) CreateReport(ctx context.Context, report *client.Report) (*client.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, report)
	return report, nil
}

func (f *fakeAPI) ConfirmReport(ctx context.Context, id int64, confirm bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed[id] = confirm
	return nil
}

func (f *fakeAPI) DeleteReport(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestLoad_Success(t *testing.T) {
	api := newFakeAPI()
	api.fetchReports = []*client.Report{
		{ID: 10, Descriptor: "Weaving through traffic", Probability: 60},
	}
	s := New(api, WithLogger(silentLogger()))
	defer s.Close()

	err := s.Load(context.Background())

	require.NoError(t, err)
	reports := s.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, int64(10), reports[0].ID)
}

func TestLoad_FallsBackToSamplesOnError(t *testing.T) {
	api := newFakeAPI()
	api.fetchErr = errors.New("connection refused")
	s := New(api, WithLogger(silentLogger()))
	defer s.Close()

	err := s.Load(context.Background())

	assert.Error(t, err)
	reports := s.Reports()
	samples := SampleReports()
	require.Len(t, reports, len(samples))
	for i, want := range samples {
		assert.Equal(t, want.ID, reports[i].ID)
		assert.Equal(t, want.Descriptor, reports[i].Descriptor)
	}
}

func TestSubmit_OptimisticPrepend(t *testing.T) {
	api := newFakeAPI()
	s := New(api, WithLogger(silentLogger()))
	defer s.Close()
	require.NoError(t, s.Load(context.Background()))

	created := s.Submit("Car swerving near 5th Ave", 37.7, -122.4)
	s.Wait()

	reports := s.Reports()
	require.NotEmpty(t, reports)
	head := reports[0]
	assert.Same(t, created, head)
	assert.Equal(t, "Car swerving near 5th Ave", head.Descriptor)
	assert.InDelta(t, 37.7, head.Latitude, 1e-9)
	assert.InDelta(t, -122.4, head.Longitude, 1e-9)
	assert.Nil(t, head.Confirm)
	assert.GreaterOrEqual(t, head.Probability, 30)
	assert.LessOrEqual(t, head.Probability, 70)
	assert.Equal(t, 1, api.createdCount())
}

func TestSubmit_IDGreaterThanExisting(t *testing.T) {
	api := newFakeAPI()
	api.fetchReports = SampleReports()
	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	s := New(api,
		WithLogger(silentLogger()),
		WithClock(func() time.Time { return base }),
		WithProbability(func() int { return 55 }),
	)
	defer s.Close()
	require.NoError(t, s.Load(context.Background()))

	var maxID int64
	for _, r := range s.Reports() {
		if r.ID > maxID {
			maxID = r.ID
		}
	}

	created := s.Submit("Truck drifting onto shoulder", 37.71, -122.41)
	s.Wait()

	assert.Equal(t, base.UnixMilli(), created.ID)
	assert.Greater(t, created.ID, maxID)
	assert.Equal(t, 55, created.Probability)
}

func TestSubmit_SurvivesRemoteFailure(t *testing.T) {
	api := newFakeAPI()
	api.createErr = errors.New("server unavailable")
	s := New(api, WithLogger(silentLogger()))
	defer s.Close()

	created := s.Submit("Driver asleep at green light", 37.72, -122.42)
	s.Wait()

	reports := s.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, created.ID, reports[0].ID)
}

func TestConfirm_OptimisticUpdate(t *testing.T) {
	api := newFakeAPI()
	api.fetchReports = []*client.Report{{ID: 7, Descriptor: "Speeding in school zone", Probability: 45}}
	s := New(api, WithLogger(silentLogger()))
	defer s.Close()
	require.NoError(t, s.Load(context.Background()))

	ok := s.Confirm(7, true)
	s.Wait()

	assert.True(t, ok)
	reports := s.Reports()
	require.NotNil(t, reports[0].Confirm)
	assert.True(t, *reports[0].Confirm)
	api.mu.Lock()
	assert.True(t, api.confirmed[7])
	api.mu.Unlock()
}

func TestConfirm_UnknownID(t *testing.T) {
	s := New(newFakeAPI(), WithLogger(silentLogger()))
	defer s.Close()

	assert.False(t, s.Confirm(404, true))
}

func TestDelete_SurvivesRemoteFailure(t *testing.T) {
	api := newFakeAPI()
	api.fetchReports = []*client.Report{
		{ID: 1, Descriptor: "Wrong-way driver on ramp", Probability: 66},
		{ID: 2, Descriptor: "Rolling stops through intersection", Probability: 41},
	}
	api.deleteErr = errors.New("server unavailable")
	s := New(api, WithLogger(silentLogger()))
	defer s.Close()
	require.NoError(t, s.Load(context.Background()))

	ok := s.Delete(1)
	s.Wait()

	assert.True(t, ok)
	reports := s.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, int64(2), reports[0].ID)
}

func TestSetStatus_LocalOnly(t *testing.T) {
	api := newFakeAPI()
	api.fetchReports = []*client.Report{{ID: 3, Descriptor: "Swerving near exit", Probability: 52}}
	s := New(api, WithLogger(silentLogger()))
	defer s.Close()
	require.NoError(t, s.Load(context.Background()))

	assert.True(t, s.SetStatus(3, "officers dispatched"))
	assert.Equal(t, "officers dispatched", s.Reports()[0].Status)
	assert.False(t, s.SetStatus(99, "officers dispatched"))
}

func TestRefresh_ReplacesLocalEdits(t *testing.T) {
	api := newFakeAPI()
	api.fetchReports = []*client.Report{{ID: 5, Descriptor: "Tailgating aggressively", Probability: 44}}
	s := New(api, WithLogger(silentLogger()))
	defer s.Close()
	require.NoError(t, s.Load(context.Background()))

	s.SetStatus(5, "watching")
	require.NoError(t, s.Refresh(context.Background()))

	assert.Empty(t, s.Reports()[0].Status)
}

func TestClose_RejectsLateWrites(t *testing.T) {
	api := newFakeAPI()
	s := New(api, WithLogger(silentLogger()))
	s.Close()

	assert.Error(t, s.Load(context.Background()))
	assert.False(t, s.Confirm(1, true))
	assert.False(t, s.Delete(1))
	s.Submit("After teardown", 37.7, -122.4)
	assert.Empty(t, s.Reports())
}
