package testsupport

import (
	"path/filepath"
	"testing"

	"playervalue/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Cache.Path = filepath.Join(cfgVal.Paths.CacheDir, "players.db")
	cfgVal.Site.BaseURL = FakeBaseURL

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithCareerEndedPolicy overrides resolver.career_ended_policy.
func WithCareerEndedPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Resolver.CareerEndedPolicy = policy
	}
}

// WithScoreThreshold overrides resolver.score_threshold.
func WithScoreThreshold(threshold float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Resolver.ScoreThreshold = threshold
	}
}

// WithConcurrency overrides resolver.concurrency.
func WithConcurrency(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Resolver.Concurrency = n
	}
}

// WithCacheTTL overrides cache.ttl_seconds.
func WithCacheTTL(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.TTLSeconds = seconds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CacheDir)
}
