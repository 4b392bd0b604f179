package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"playervalue/internal/logging"
)

// ErrPoolClosed is returned by Acquire once the pool has been closed.
var ErrPoolClosed = errors.New("session pool closed")

// Pool lends a fixed set of sessions to concurrent callers.
type Pool struct {
	sessions []Session
	idle     chan Session
	done     chan struct{}
	logger   *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// OpenPool opens size sessions through factory. If any session fails to
// open, the ones that did open are closed and the error is returned.
func OpenPool(ctx context.Context, size int, factory Factory, logger *slog.Logger) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("session pool size must be positive, got %d", size)
	}
	if factory == nil {
		return nil, errors.New("session factory is required")
	}
	logger = logging.NewComponentLogger(logger, "browser")

	opener := pool.NewWithResults[Session]().WithErrors().WithMaxGoroutines(size)
	for i := 0; i < size; i++ {
		opener.Go(func() (Session, error) {
			return factory(ctx)
		})
	}
	sessions, err := opener.Wait()
	if err != nil {
		for _, s := range sessions {
			_ = s.Close()
		}
		return nil, fmt.Errorf("open browser sessions: %w", err)
	}

	p := &Pool{
		sessions: sessions,
		idle:     make(chan Session, len(sessions)),
		done:     make(chan struct{}),
		logger:   logger,
	}
	for _, s := range sessions {
		p.idle <- s
	}
	logger.Info("browser sessions ready",
		logging.Int("sessions", len(sessions)),
		logging.String(logging.FieldEventType, "browser_pool_open"),
	)
	return p, nil
}

// Size reports how many sessions the pool owns.
func (p *Pool) Size() int {
	return len(p.sessions)
}

// Acquire blocks until a session is free, ctx is done, or the pool closes.
func (p *Pool) Acquire(ctx context.Context) (Session, error) {
	select {
	case <-p.done:
		return nil, ErrPoolClosed
	default:
	}
	select {
	case s := <-p.idle:
		return s, nil
	case <-p.done:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release hands a session back. Releasing after Close is a no-op.
func (p *Pool) Release(s Session) {
	if s == nil {
		return
	}
	select {
	case <-p.done:
		return
	default:
	}
	select {
	case p.idle <- s:
	default:
		logging.WarnWithContext(p.logger, "session released twice; ignoring", "browser_pool_double_release",
			logging.String(logging.FieldErrorHint, "each Acquire must be paired with exactly one Release"),
			logging.String(logging.FieldImpact, "none"),
		)
	}
}

// With runs fn with a leased session and returns the session afterwards,
// including when fn panics.
func (p *Pool) With(ctx context.Context, fn func(Session) error) error {
	s, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(s)
	return fn(s)
}

// Close closes every session once. Sessions still leased are closed too;
// their holders will see navigation errors.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		var errs []error
		for _, s := range p.sessions {
			if err := s.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		p.closeErr = errors.Join(errs...)
		p.logger.Info("browser sessions closed",
			logging.Int("sessions", len(p.sessions)),
			logging.String(logging.FieldEventType, "browser_pool_closed"),
		)
	})
	return p.closeErr
}
