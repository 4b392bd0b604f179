package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"playervalue/internal/player"
)

// DefaultTTL is the freshness window used when none is configured.
const DefaultTTL = time.Hour

// Options configures Open.
type Options struct {
	// Path is the SQLite database file.
	Path string
	// TTL bounds how long a stored record counts as fresh.
	TTL time.Duration
	// MaxConns caps pooled connections; it usually matches the worker count.
	MaxConns int
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Cache is a SQLite-backed record store with TTL reads. It is safe for
// concurrent use; each caller borrows its own pooled connection.
type Cache struct {
	db   *sqlx.DB
	path string
	ttl  time.Duration
	now  func() time.Time
}

// Entry is a stored record plus bookkeeping, as shown by the cache commands.
type Entry struct {
	Record   player.Record
	StoredAt time.Time
	Fresh    bool
}

type cacheRow struct {
	PlayerName      string  `db:"player_name"`
	MatchedName     string  `db:"matched_name"`
	MarketValue     float64 `db:"market_value"`
	Status          string  `db:"status"`
	ContractEnd     string  `db:"contract_end"`
	BirthDate       string  `db:"birth_date"`
	DetailURL       string  `db:"detail_url"`
	Score           float64 `db:"score"`
	NeedsReview     bool    `db:"needs_review"`
	ResolutionError string  `db:"resolution_error"`
	ResolvedAt      int64   `db:"resolved_at"`
	StoredAt        int64   `db:"stored_at"`
}

const rowColumns = `player_name, matched_name, market_value, status, contract_end, birth_date,
	detail_url, score, needs_review, resolution_error, resolved_at, stored_at`

// Open creates or opens the cache database at opts.Path and checks its schema.
func Open(ctx context.Context, opts Options) (*Cache, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return nil, errors.New("cache path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", dataSourceName(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	maxConns := opts.MaxConns
	if maxConns < 1 {
		maxConns = 1
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	c := &Cache{db: db, path: path, ttl: opts.TTL, now: opts.Now}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	if err := c.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// dataSourceName applies the pragmas on every pooled connection rather than
// only the first one.
func dataSourceName(path string) string {
	params := url.Values{}
	params.Add("_pragma", "busy_timeout(5000)")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + path + "?" + params.Encode()
}

// Path returns the database file location.
func (c *Cache) Path() string { return c.path }

// TTL returns the freshness window.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Close closes the underlying connection pool.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the stored record for name when it is still fresh. A stale or
// missing row is reported as a miss.
func (c *Cache) Get(ctx context.Context, name string) (player.Record, bool, error) {
	entry, ok, err := c.Lookup(ctx, name)
	if err != nil || !ok || !entry.Fresh {
		return player.Record{}, false, err
	}
	return entry.Record, true, nil
}

// Lookup returns the stored entry for name regardless of age.
func (c *Cache) Lookup(ctx context.Context, name string) (Entry, bool, error) {
	var row cacheRow
	err := retryOnBusy(ctx, func() error {
		return c.db.GetContext(ctx, &row, `SELECT `+rowColumns+` FROM player_cache WHERE player_name = ?`, name)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("read cache entry: %w", err)
	}
	return c.toEntry(row), true, nil
}

// Put stores rec under its original name, replacing any previous row.
func (c *Cache) Put(ctx context.Context, rec player.Record) error {
	if strings.TrimSpace(rec.OriginalName) == "" {
		return errors.New("cache put: record has no original name")
	}
	row := fromRecord(rec, c.now())
	err := retryOnBusy(ctx, func() error {
		_, err := c.db.NamedExecContext(ctx,
			`INSERT OR REPLACE INTO player_cache (`+rowColumns+`) VALUES (
				:player_name, :matched_name, :market_value, :status, :contract_end, :birth_date,
				:detail_url, :score, :needs_review, :resolution_error, :resolved_at, :stored_at)`,
			row,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// List returns every stored entry, most recently stored first.
func (c *Cache) List(ctx context.Context) ([]Entry, error) {
	var rows []cacheRow
	err := retryOnBusy(ctx, func() error {
		rows = rows[:0]
		return c.db.SelectContext(ctx, &rows, `SELECT `+rowColumns+` FROM player_cache ORDER BY stored_at DESC, player_name`)
	})
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, c.toEntry(row))
	}
	return entries, nil
}

// Delete removes the row for name and reports whether one existed.
func (c *Cache) Delete(ctx context.Context, name string) (bool, error) {
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = c.db.ExecContext(ctx, `DELETE FROM player_cache WHERE player_name = ?`, name)
		return execErr
	})
	if err != nil {
		return false, fmt.Errorf("delete cache entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete cache entry: %w", err)
	}
	return affected > 0, nil
}

// Clear removes rows. With staleOnly set only rows past the TTL go.
func (c *Cache) Clear(ctx context.Context, staleOnly bool) (int64, error) {
	query := `DELETE FROM player_cache`
	var args []any
	if staleOnly {
		query += ` WHERE stored_at < ?`
		args = append(args, c.now().Add(-c.ttl).UnixNano())
	}
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = c.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored rows.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	err := retryOnBusy(ctx, func() error {
		return c.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM player_cache`)
	})
	if err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return n, nil
}

func (c *Cache) toEntry(row cacheRow) Entry {
	stored := time.Unix(0, row.StoredAt).UTC()
	return Entry{
		Record:   row.toRecord(),
		StoredAt: stored,
		Fresh:    c.now().Sub(stored) <= c.ttl,
	}
}

func fromRecord(rec player.Record, now time.Time) cacheRow {
	resolved := rec.ResolvedAt
	if resolved.IsZero() {
		resolved = now
	}
	return cacheRow{
		PlayerName:      rec.OriginalName,
		MatchedName:     rec.MatchedName,
		MarketValue:     rec.MarketValue,
		Status:          string(rec.Status),
		ContractEnd:     rec.ContractEnd,
		BirthDate:       rec.BirthDate,
		DetailURL:       rec.DetailURL,
		Score:           rec.Score,
		NeedsReview:     rec.NeedsReview,
		ResolutionError: rec.ResolutionError,
		ResolvedAt:      resolved.UnixNano(),
		StoredAt:        now.UnixNano(),
	}
}

func (r cacheRow) toRecord() player.Record {
	return player.Record{
		OriginalName:    r.PlayerName,
		MatchedName:     r.MatchedName,
		MarketValue:     r.MarketValue,
		Status:          player.ParseStatus(r.Status),
		ContractEnd:     r.ContractEnd,
		BirthDate:       r.BirthDate,
		DetailURL:       r.DetailURL,
		Score:           r.Score,
		NeedsReview:     r.NeedsReview,
		ResolutionError: r.ResolutionError,
		ResolvedAt:      time.Unix(0, r.ResolvedAt).UTC(),
	}
}
