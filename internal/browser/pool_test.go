package browser

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	id     int
	closed atomic.Int32
}

func (s *stubSession) Navigate(context.Context, string) error { return nil }

func (s *stubSession) Document(context.Context, string) (string, error) { return "", nil }

func (s *stubSession) DismissConsent(context.Context) error { return ErrNoConsentOverlay }

func (s *stubSession) Close() error {
	s.closed.Add(1)
	return nil
}

type stubFactory struct {
	mu       sync.Mutex
	opened   []*stubSession
	failFrom int
}

func (f *stubFactory) open(context.Context) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFrom > 0 && len(f.opened) >= f.failFrom {
		return nil, errors.New("chrome missing")
	}
	s := &stubSession{id: len(f.opened)}
	f.opened = append(f.opened, s)
	return s, nil
}

func TestOpenPoolRejectsBadSize(t *testing.T) {
	f := &stubFactory{}
	_, err := OpenPool(context.Background(), 0, f.open, nil)
	require.Error(t, err)
	assert.Empty(t, f.opened)
}

func TestOpenPoolClosesOpenedSessionsOnFailure(t *testing.T) {
	f := &stubFactory{failFrom: 2}
	_, err := OpenPool(context.Background(), 3, f.open, nil)
	require.Error(t, err)
	require.Len(t, f.opened, 2)
	for _, s := range f.opened {
		assert.EqualValues(t, 1, s.closed.Load())
	}
}

func TestAcquireBlocksUntilRelease(t *testing.T) {
	f := &stubFactory{}
	p, err := OpenPool(context.Background(), 1, f.open, nil)
	require.NoError(t, err)
	defer p.Close()

	first, err := p.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Acquire(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	got := make(chan Session, 1)
	go func() {
		s, err := p.Acquire(context.Background())
		if err == nil {
			got <- s
		}
	}()
	p.Release(first)
	select {
	case s := <-got:
		assert.Same(t, first, s)
	case <-time.After(time.Second):
		t.Fatal("waiter never received the released session")
	}
}

func TestWithReleasesOnErrorAndPanic(t *testing.T) {
	f := &stubFactory{}
	p, err := OpenPool(context.Background(), 1, f.open, nil)
	require.NoError(t, err)
	defer p.Close()

	boom := errors.New("boom")
	err = p.With(context.Background(), func(Session) error { return boom })
	require.ErrorIs(t, err, boom)

	func() {
		defer func() { _ = recover() }()
		_ = p.With(context.Background(), func(Session) error { panic("scrape exploded") })
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s, err := p.Acquire(ctx)
	require.NoError(t, err, "session must be back in the pool after error and panic")
	p.Release(s)
}

func TestPoolBoundsConcurrency(t *testing.T) {
	f := &stubFactory{}
	p, err := OpenPool(context.Background(), 2, f.open, nil)
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, 2, p.Size())

	var inUse, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.With(context.Background(), func(Session) error {
				n := inUse.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				inUse.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestCloseIsIdempotentAndStopsAcquire(t *testing.T) {
	f := &stubFactory{}
	p, err := OpenPool(context.Background(), 2, f.open, nil)
	require.NoError(t, err)

	leased, err := p.Acquire(context.Background())
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	for _, s := range f.opened {
		assert.EqualValues(t, 1, s.closed.Load())
	}

	_, err = p.Acquire(context.Background())
	require.ErrorIs(t, err, ErrPoolClosed)
	p.Release(leased)
}
