package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/sourcegraph/conc/panics"

	"playervalue/internal/browser"
	"playervalue/internal/logging"
	"playervalue/internal/metrics"
	"playervalue/internal/names"
	"playervalue/internal/player"
	"playervalue/internal/scoring"
	"playervalue/internal/scrape"
)

// ErrNoCandidate reports that no result row cleared the score threshold.
var ErrNoCandidate = errors.New("no player found above threshold")

// Resolution stages, as logged under the stage key.
const (
	stageSearching   = "searching"
	stageScoring     = "scoring"
	stageDetailFetch = "detail_fetch"
	stageDone        = "done"
	stageError       = "error"
)

// Scorer rates how well a normalized candidate name matches a normalized
// query, from 0 to 100.
type Scorer func(query, candidate string) float64

// Option customizes a Resolver.
type Option func(*Resolver)

// WithScorer replaces the default multi-strategy fuzzy scorer.
func WithScorer(scorer Scorer) Option {
	return func(r *Resolver) {
		if scorer != nil {
			r.score = scorer
		}
	}
}

// WithMetrics records resolution metrics on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(r *Resolver) {
		r.metrics = rec
	}
}

// WithClock overrides the clock used for ResolvedAt and durations.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver resolves one name at a time against the directory. It is safe for
// concurrent use; concurrency is bounded by the session pool.
type Resolver struct {
	pool    *browser.Pool
	cfg     Config
	base    *url.URL
	score   Scorer
	metrics *metrics.Recorder
	now     func() time.Time
	logger  *slog.Logger
}

// New builds a resolver that leases sessions from pool.
func New(pool *browser.Pool, cfg Config, opts ...Option) (*Resolver, error) {
	if pool == nil {
		return nil, errors.New("resolver: session pool is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("resolver: invalid base url %q", cfg.BaseURL)
	}
	r := &Resolver{
		pool:  pool,
		cfg:   cfg,
		base:  base,
		score: scoring.Score,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "resolver")
	return r, nil
}

// Resolve returns the record for name. It never fails: misses, page errors,
// cancellation and panics all produce a record describing what happened.
func (r *Resolver) Resolve(ctx context.Context, name string) (rec player.Record) {
	start := r.now()
	ctx = logging.WithPlayer(ctx, name)
	logger := logging.WithContext(ctx, r.logger)
	defer func() {
		r.metrics.RecordResolution(string(rec.Status), r.now().Sub(start))
	}()

	var catcher panics.Catcher
	catcher.Try(func() {
		rec = r.resolve(ctx, logger, name)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		logging.ErrorWithContext(logger, "resolution panicked", "resolution_panic",
			logging.String(logging.FieldStage, stageError),
			logging.Any("panic", recovered.Value),
			logging.String("stack", string(recovered.Stack)),
			logging.String(logging.FieldErrorHint, "report the player name and the stack trace"),
		)
		rec = player.Unknown(name, fmt.Sprintf("internal error: %v", recovered.Value), r.now())
	}
	return rec
}

func (r *Resolver) resolve(ctx context.Context, logger *slog.Logger, name string) player.Record {
	if length := names.Length(name); length < r.cfg.MinNameLength {
		rec := player.Unknown(name, fmt.Sprintf("name too short to search reliably (%d characters, need %d)", length, r.cfg.MinNameLength), r.now())
		rec.NeedsReview = true
		logger.Info("player needs review",
			logging.String(logging.FieldStage, stageDone),
			logging.String("reason", rec.ResolutionError),
			logging.Bool("needs_review", true),
		)
		return rec
	}

	normalized := names.Normalize(name)
	var rec player.Record
	err := r.pool.With(ctx, func(session browser.Session) error {
		winner, err := r.search(ctx, logger, session, normalized)
		if err != nil {
			return err
		}
		rec = r.describe(ctx, logger, session, name, winner)
		return nil
	})
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, ErrNoCandidate) {
			level = slog.LevelInfo
		}
		logger.Log(ctx, level, "player unresolved",
			logging.String(logging.FieldStage, stageError),
			logging.Error(err),
		)
		return player.Unknown(name, err.Error(), r.now())
	}

	logger.Info("player resolved",
		logging.String(logging.FieldStage, stageDone),
		logging.String("matched_name", rec.MatchedName),
		logging.Float64("market_value", rec.MarketValue),
		logging.String("status", string(rec.Status)),
		logging.String("contract_end", rec.ContractEnd),
		logging.Float64("score", rec.Score),
	)
	return rec
}

// search queries every variant of the normalized name and returns the
// winning candidate.
func (r *Resolver) search(ctx context.Context, logger *slog.Logger, session browser.Session, normalized string) (candidate, error) {
	pick := newPicker(r.cfg.Threshold, r.cfg.Policy)
	visited := make(map[string]struct{})
	scores := make(map[string]float64)

	for _, variant := range names.Variants(normalized) {
		if err := ctx.Err(); err != nil {
			return candidate{}, err
		}
		target := r.searchURL(variant)
		if _, seen := visited[target]; seen {
			continue
		}
		visited[target] = struct{}{}

		logger.Debug("searching variant",
			logging.String(logging.FieldStage, stageSearching),
			logging.String("variant", variant),
			logging.String("url", target),
		)
		rows, err := r.searchVariant(ctx, session, target)
		switch {
		case errors.Is(err, scrape.ErrTableNotFound):
			logger.Debug("no result table", logging.String("variant", variant))
			continue
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return candidate{}, ctxErr
			}
			logging.WarnWithContext(logger, "variant search failed; skipping", "variant_search_failed",
				logging.String(logging.FieldStage, stageSearching),
				logging.String("variant", variant),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check network access to the directory"),
				logging.String(logging.FieldImpact, "remaining variants are still searched"),
			)
			continue
		}

		for _, row := range rows {
			key := names.Normalize(row.Name) + "\x00" + row.Href
			score, ok := scores[key]
			if !ok {
				score = r.score(normalized, names.Normalize(row.Name))
				scores[key] = score
			}
			pick.offer(candidate{row: row, score: score})
		}
	}

	winner, ok := pick.winner()
	logger.Debug("candidates scored",
		logging.String(logging.FieldStage, stageScoring),
		logging.Int("candidates", pick.offered),
		logging.Int("eligible", pick.eligible),
		logging.Bool("matched", ok),
	)
	if !ok {
		return candidate{}, ErrNoCandidate
	}
	logger.Debug("candidate selected", logging.Args(logging.DecisionAttrs("candidate_match", "selected",
		fmt.Sprintf("%s scored %.1f", winner.row.Name, winner.score))...)...)
	return winner, nil
}

// searchVariant loads one result page. When the table is missing it tries to
// dismiss the consent overlay and reads the page again, up to ConsentRetries
// times.
func (r *Resolver) searchVariant(ctx context.Context, session browser.Session, target string) ([]scrape.ExtractedRow, error) {
	if err := session.Navigate(ctx, target); err != nil {
		r.metrics.RecordPageLoad(metrics.PageSearch, err)
		return nil, fmt.Errorf("navigate: %w", err)
	}
	for attempt := 0; ; attempt++ {
		html, err := session.Document(ctx, r.cfg.Selectors.ResultTable)
		if err != nil {
			r.metrics.RecordPageLoad(metrics.PageSearch, err)
			return nil, fmt.Errorf("read result page: %w", err)
		}
		rows, err := scrape.ExtractRows(html, r.cfg.Selectors)
		if !errors.Is(err, scrape.ErrTableNotFound) || attempt >= r.cfg.ConsentRetries {
			r.metrics.RecordPageLoad(metrics.PageSearch, nil)
			return rows, err
		}
		if err := session.DismissConsent(ctx); err != nil {
			r.metrics.RecordPageLoad(metrics.PageSearch, nil)
			if errors.Is(err, browser.ErrNoConsentOverlay) {
				return nil, scrape.ErrTableNotFound
			}
			return nil, fmt.Errorf("dismiss consent: %w", err)
		}
		r.metrics.RecordConsentDismissal()
	}
}

// describe turns the winning candidate into a record, reading the profile
// page for active players.
func (r *Resolver) describe(ctx context.Context, logger *slog.Logger, session browser.Session, name string, winner candidate) player.Record {
	rec := player.Record{
		OriginalName: name,
		MatchedName:  winner.row.Name,
		MarketValue:  winner.row.Value,
		Status:       winner.row.Status,
		Score:        winner.score,
		DetailURL:    r.detailURL(winner.row.Href),
	}
	if winner.row.CareerEnded() {
		rec.ContractEnd = r.cfg.CareerEndedLabel
		rec.ResolvedAt = r.now()
		return rec
	}

	logger.Debug("fetching profile",
		logging.String(logging.FieldStage, stageDetailFetch),
		logging.String("detail_url", rec.DetailURL),
	)
	detail, err := r.fetchDetail(ctx, session, rec.DetailURL)
	if err != nil {
		rec.ResolutionError = err.Error()
		logging.WarnWithContext(logger, "profile fetch failed; keeping search result", "detail_fetch_failed",
			logging.String(logging.FieldStage, stageDetailFetch),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "rerun later; the record is cached without contract details"),
			logging.String(logging.FieldImpact, "contract end and birth date are missing"),
		)
	} else {
		rec.ContractEnd = detail.ContractEnd
		rec.BirthDate = detail.BirthDate
	}
	rec.ResolvedAt = r.now()
	return rec
}

func (r *Resolver) fetchDetail(ctx context.Context, session browser.Session, target string) (scrape.Detail, error) {
	if target == "" {
		return scrape.Detail{}, errors.New("profile page: candidate has no profile link")
	}
	err := session.Navigate(ctx, target)
	var html string
	if err == nil {
		html, err = session.Document(ctx, "body")
	}
	r.metrics.RecordPageLoad(metrics.PageDetail, err)
	if err != nil {
		return scrape.Detail{}, fmt.Errorf("profile page: %w", err)
	}
	doc, err := scrape.ParseDocument(html)
	if err != nil {
		return scrape.Detail{}, fmt.Errorf("profile page: %w", err)
	}
	return scrape.ExtractDetail(doc, r.cfg.Labels), nil
}

func (r *Resolver) searchURL(variant string) string {
	return r.base.String() + r.cfg.SearchPath + "?query=" + url.QueryEscape(variant)
}

func (r *Resolver) detailURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return r.base.ResolveReference(ref).String()
}
