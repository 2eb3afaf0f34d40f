// Package store holds the per-screen report list. Mutations are optimistic:
// the local list changes first and the matching remote call is best-effort,
// with no rollback on failure. A closed store never accepts late writes, so
// a slow fetch cannot resurrect state for a screen that has been torn down.
package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/matthewru/hd-mobile/client"
	"github.com/sirupsen/logrus"
)

// API is the slice of the HTTP client the store drives.
type API interface {
	FetchReports(ctx context.Context) ([]*client.Report, error)
	CreateReport(ctx context.Context, report *client.Report) (*client.Report, error)
	ConfirmReport(ctx context.Context, id int64, confirm bool) error
	DeleteReport(ctx context.Context, id int64) error
}

// Store owns an ordered in-memory report list for one screen lifetime.
type Store struct {
	api    API
	logger *logrus.Logger

	lifetime context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu      sync.Mutex
	reports []*client.Report
	closed  bool

	now         func() time.Time
	probability func() int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger replaces the default logger.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Store) { s.logger = log }
}

// WithClock replaces the wall clock used for client-generated report ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithProbability replaces the probability generator used for synthesized
// reports.
func WithProbability(fn func() int) Option {
	return func(s *Store) { s.probability = fn }
}

// New creates a Store bound to one screen lifetime. Close it on unmount.
func New(api API, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		api:      api,
		logger:   logrus.New(),
		lifetime: ctx,
		cancel:   cancel,
		reports:  make([]*client.Report, 0),
		now:      time.Now,
		probability: func() int {
			// display-only score, same range the mock data uses
			return 30 + rand.IntN(41)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the report list from the server. On any fetch or parse
// failure the list falls back to the fixed sample set and the error is
// returned so the screen can surface an alert; the store stays usable.
func (s *Store) Load(ctx context.Context) error {
	fetchCtx, cancel := s.requestContext(ctx)
	defer cancel()

	reports, err := s.api.FetchReports(fetchCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store: closed")
	}

	if err != nil {
		s.logger.WithError(err).Warn("Failed to fetch reports, falling back to sample data")
		s.reports = SampleReports()
		return fmt.Errorf("store: could not fetch reports: %w", err)
	}

	s.reports = reports
	return nil
}

// Refresh re-runs the same fetch as Load, replacing the whole list with
// server truth. Optimistic local edits that never reached the server are
// overwritten; no reconciliation is attempted.
func (s *Store) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// Reports returns a snapshot of the current list, newest first.
func (s *Store) Reports() []*client.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]*client.Report, len(s.reports))
	copy(snapshot, s.reports)
	return snapshot
}

// Submit prepends a synthesized report (millisecond id, generated
// probability, unconfirmed) and fires a best-effort remote create. The
// optimistic record is returned immediately and never rolled back.
func (s *Store) Submit(descriptor string, latitude, longitude float64) *client.Report {
	report := &client.Report{
		ID:          s.now().UnixMilli(),
		Latitude:    latitude,
		Longitude:   longitude,
		Descriptor:  descriptor,
		Confirm:     nil,
		Probability: s.probability(),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return report
	}
	s.reports = append([]*client.Report{report}, s.reports...)
	s.mu.Unlock()

	s.remote("create", func(ctx context.Context) error {
		_, err := s.api.CreateReport(ctx, report)
		return err
	})
	return report
}

// Confirm marks the report as confirmed-hazard (true) or confirmed-safe
// (false) locally and fires a best-effort remote confirm. It reports whether
// the id was present.
func (s *Store) Confirm(id int64, hazard bool) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	found := false
	for _, r := range s.reports {
		if r.ID == id {
			confirm := hazard
			r.Confirm = &confirm
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return false
	}

	s.remote("confirm", func(ctx context.Context) error {
		return s.api.ConfirmReport(ctx, id, hazard)
	})
	return true
}

// Delete removes the report locally and fires a best-effort remote delete.
// The local removal stands even when the remote call fails.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	found := false
	for i, r := range s.reports {
		if r.ID == id {
			s.reports = append(s.reports[:i], s.reports[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return false
	}

	s.remote("delete", func(ctx context.Context) error {
		return s.api.DeleteReport(ctx, id)
	})
	return true
}

// SetStatus annotates a report locally (e.g. "officers dispatched"). The
// status never leaves the device.
func (s *Store) SetStatus(id int64, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.ID == id {
			r.Status = status
			return true
		}
	}
	return false
}

// Wait blocks until all in-flight remote calls have settled.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close ends the store lifetime: in-flight remote calls are cancelled and no
// further writes are accepted.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}

// remote runs one best-effort remote call on the store lifetime. Failures
// are logged, never propagated, and never roll back local state.
func (s *Store) remote(op string, call func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := call(s.lifetime); err != nil {
			s.logger.WithError(err).WithField("op", op).Warn("Best-effort remote call failed")
		}
	}()
}

// requestContext derives a fetch context cancelled by either the caller or
// the store lifetime.
func (s *Store) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.lifetime, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}
