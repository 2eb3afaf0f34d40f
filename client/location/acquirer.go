// Package location acquires the device position for the map dashboards. A
// single fix is raced against a fixed timeout and the default coordinate is
// adopted when the fix loses; a standing watch feeds the "you are here"
// marker for the screen lifetime.
package location

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrPermissionDenied is returned by providers when foreground location
// permission was refused.
var ErrPermissionDenied = errors.New("location permission denied")

// AcquireTimeout bounds a single position fix.
const AcquireTimeout = 5 * time.Second

// Coordinate is a position in floating-point degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// DefaultCoordinate is the fallback map center when no fix is available.
var DefaultCoordinate = Coordinate{Latitude: 37.78825, Longitude: -122.4324}

// Provider abstracts the platform location service.
type Provider interface {
	// Current obtains a single position fix. It returns ErrPermissionDenied
	// when foreground permission is refused.
	Current(ctx context.Context) (Coordinate, error)
	// Watch streams position updates at the given minimum movement
	// threshold until ctx is cancelled.
	Watch(ctx context.Context, minDistanceMeters float64) (<-chan Coordinate, error)
}

// Acquirer wraps a Provider with the timeout race and default fallback.
type Acquirer struct {
	provider Provider
	timeout  time.Duration
	fallback Coordinate
	logger   *logrus.Logger
}

// Option configures an Acquirer.
type Option func(*Acquirer)

// WithTimeout replaces the default fix timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Acquirer) { a.timeout = d }
}

// WithFallback replaces the default fallback coordinate.
func WithFallback(c Coordinate) Option {
	return func(a *Acquirer) { a.fallback = c }
}

// WithLogger replaces the default logger.
func WithLogger(log *logrus.Logger) Option {
	return func(a *Acquirer) { a.logger = log }
}

func NewAcquirer(provider Provider, opts ...Option) *Acquirer {
	a := &Acquirer{
		provider: provider,
		timeout:  AcquireTimeout,
		fallback: DefaultCoordinate,
		logger:   logrus.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire races a single position fix against the timeout. Whichever settles
// first wins; the loser is cancelled and its result discarded. Timeout,
// permission denial and fix failure are all non-fatal: the fallback
// coordinate is returned together with the error so the screen can show a
// banner and keep the map usable.
func (a *Acquirer) Acquire(ctx context.Context) (Coordinate, error) {
	fixCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type result struct {
		coord Coordinate
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		coord, err := a.provider.Current(fixCtx)
		ch <- result{coord: coord, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			if errors.Is(res.err, ErrPermissionDenied) {
				a.logger.Warn("Location permission denied, using default coordinate")
			} else {
				a.logger.WithError(res.err).Warn("Position fix failed, using default coordinate")
			}
			return a.fallback, res.err
		}
		return res.coord, nil
	case <-fixCtx.Done():
		a.logger.Warn("Position fix timed out, using default coordinate")
		return a.fallback, fixCtx.Err()
	}
}

// Subscribe establishes the standing position watch used to move the "you
// are here" marker. The stream ends when ctx is cancelled, typically on
// screen unmount.
func (a *Acquirer) Subscribe(ctx context.Context, minDistanceMeters float64) (<-chan Coordinate, error) {
	updates, err := a.provider.Watch(ctx, minDistanceMeters)
	if err != nil {
		a.logger.WithError(err).Warn("Failed to establish position watch")
		return nil, err
	}
	return updates, nil
}
