package resolver

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"

	"playervalue/internal/logging"
	"playervalue/internal/player"
)

// Store is the cache the service reads before resolving and writes after.
type Store interface {
	// Get returns a fresh record for name, if any.
	Get(ctx context.Context, name string) (player.Record, bool, error)
	Put(ctx context.Context, rec player.Record) error
}

// ProgressFunc is called on the collecting goroutine once per finished name.
type ProgressFunc func(done, total int, rec player.Record)

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) ServiceOption {
	return func(s *Service) {
		s.progress = fn
	}
}

// Unresolved names an input that did not fully resolve, and why.
type Unresolved struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Report summarizes one batch.
type Report struct {
	Processed  int          `json:"processed"`
	Updated    int          `json:"updated"`
	CacheHits  int          `json:"cache_hits"`
	Unresolved []Unresolved `json:"unresolved"`
}

// Service resolves batches of names with bounded concurrency.
type Service struct {
	resolver *Resolver
	store    Store
	progress ProgressFunc
}

// NewService wraps res. A nil store disables caching.
func NewService(res *Resolver, store Store, opts ...ServiceOption) *Service {
	s := &Service{resolver: res, store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type outcome struct {
	rec    player.Record
	cached bool
}

// ResolveAll resolves every distinct name and returns exactly one record per
// name. Workers never share state: each sends its outcome to this goroutine,
// which alone writes the cache, counts, and reports progress.
func (s *Service) ResolveAll(ctx context.Context, inputs []string) (map[string]player.Record, Report) {
	batch := distinct(inputs)
	results := make(map[string]player.Record, len(batch))
	report := Report{Unresolved: []Unresolved{}}
	if len(batch) == 0 {
		return results, report
	}

	logger := logging.WithContext(ctx, s.resolver.logger)
	start := s.resolver.now()
	workers := s.resolver.pool.Size()

	outcomes := make(chan outcome, len(batch))
	pool, err := ants.NewPool(workers)
	if err != nil {
		logging.ErrorWithContext(logger, "worker pool unavailable", "worker_pool_failed", logging.Error(err))
		for _, name := range batch {
			outcomes <- outcome{rec: player.Unknown(name, fmt.Sprintf("create worker pool: %v", err), s.resolver.now())}
		}
		close(outcomes)
	} else {
		defer pool.Release()
		logger.Info("batch started",
			logging.Int("players", len(batch)),
			logging.Int("workers", workers),
			logging.String(logging.FieldEventType, "batch_started"),
		)
		go s.dispatch(ctx, pool, batch, outcomes)
	}

	done := 0
	for out := range outcomes {
		done++
		rec := out.rec
		results[rec.OriginalName] = rec
		report.Processed++
		switch {
		case out.cached:
			report.CacheHits++
		case s.store != nil && rec.Cacheable():
			if err := s.store.Put(context.WithoutCancel(ctx), rec); err != nil {
				logging.WarnWithContext(logger, "cache write failed", "cache_write_failed",
					logging.String(logging.FieldPlayer, rec.OriginalName),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check the cache path is writable"),
					logging.String(logging.FieldImpact, "the player is resolved again on the next run"),
				)
			} else {
				report.Updated++
			}
		}
		if !rec.FullyResolved() {
			report.Unresolved = append(report.Unresolved, Unresolved{Name: rec.OriginalName, Reason: rec.Reason()})
		}
		if s.progress != nil {
			s.progress(done, len(batch), rec)
		}
	}

	slices.SortFunc(report.Unresolved, func(a, b Unresolved) int {
		return strings.Compare(a.Name, b.Name)
	})
	logger.Info("batch finished",
		logging.Int("processed", report.Processed),
		logging.Int("updated", report.Updated),
		logging.Int("cache_hits", report.CacheHits),
		logging.Int("unresolved", len(report.Unresolved)),
		logging.Duration("duration", s.resolver.now().Sub(start)),
		logging.String(logging.FieldEventType, "batch_finished"),
	)
	return results, report
}

// dispatch submits one task per name and closes outcomes when all are done.
func (s *Service) dispatch(ctx context.Context, pool *ants.Pool, batch []string, outcomes chan<- outcome) {
	var workers sync.WaitGroup
	for _, name := range batch {
		name := name
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			outcomes <- s.resolveOne(ctx, name)
		}); err != nil {
			workers.Done()
			outcomes <- outcome{rec: player.Unknown(name, fmt.Sprintf("submit task to worker pool: %v", err), s.resolver.now())}
		}
	}
	workers.Wait()
	close(outcomes)
}

func (s *Service) resolveOne(ctx context.Context, name string) (out outcome) {
	var catcher panics.Catcher
	catcher.Try(func() {
		out = s.lookupOrResolve(ctx, name)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		out = outcome{rec: player.Unknown(name, fmt.Sprintf("internal error: %v", recovered.Value), s.resolver.now())}
	}
	return out
}

func (s *Service) lookupOrResolve(ctx context.Context, name string) outcome {
	if s.store != nil {
		rec, ok, err := s.store.Get(ctx, name)
		if err != nil {
			logging.WarnWithContext(s.resolver.logger, "cache read failed; resolving live", "cache_read_failed",
				logging.String(logging.FieldPlayer, name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete the cache file if the error persists"),
				logging.String(logging.FieldImpact, "the player is looked up in the browser"),
			)
		}
		hit := ok && err == nil
		s.resolver.metrics.RecordCacheLookup(hit)
		if hit {
			s.resolver.logger.Debug("cache hit", logging.String(logging.FieldPlayer, name))
			return outcome{rec: rec, cached: true}
		}
	}
	return outcome{rec: s.resolver.Resolve(ctx, name)}
}

// distinct collapses exact duplicates, keeping first occurrences. Names are
// kept as given: a blank or padded name is its own input and gets a record.
func distinct(inputs []string) []string {
	seen := make(map[string]struct{}, len(inputs))
	out := make([]string, 0, len(inputs))
	for _, name := range inputs {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
