package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"playervalue/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PLAYERVALUE_BASE_URL", "")
	t.Setenv("PLAYERVALUE_CHROME_PATH", "")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCacheDir := filepath.Join(tempHome, ".cache", "playervalue")
	if cfg.Paths.CacheDir != wantCacheDir {
		t.Fatalf("unexpected cache dir: got %q want %q", cfg.Paths.CacheDir, wantCacheDir)
	}
	if cfg.Cache.Path != filepath.Join(wantCacheDir, "players.db") {
		t.Fatalf("unexpected cache path: %q", cfg.Cache.Path)
	}
	if cfg.CacheTTL() != time.Hour {
		t.Fatalf("unexpected cache ttl: %s", cfg.CacheTTL())
	}
	if cfg.Resolver.Concurrency != 3 {
		t.Fatalf("unexpected concurrency: %d", cfg.Resolver.Concurrency)
	}
	if cfg.Resolver.ScoreThreshold != 90 {
		t.Fatalf("unexpected threshold: %v", cfg.Resolver.ScoreThreshold)
	}
	if cfg.Resolver.CareerEndedPolicy != config.PolicyAllow {
		t.Fatalf("unexpected policy: %q", cfg.Resolver.CareerEndedPolicy)
	}
	if cfg.PageLoadTimeout() != 30*time.Second || cfg.ImplicitWait() != 5*time.Second {
		t.Fatalf("unexpected browser timeouts: %s / %s", cfg.PageLoadTimeout(), cfg.ImplicitWait())
	}
	if !cfg.Browser.Headless || !cfg.Browser.DisableImages {
		t.Fatal("expected headless browser with images disabled by default")
	}
	if cfg.Site.CareerEndedLabel != cfg.Site.CareerEndedMarker {
		t.Fatalf("career ended label should default to the marker, got %q", cfg.Site.CareerEndedLabel)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PLAYERVALUE_BASE_URL", "")
	t.Setenv("PLAYERVALUE_CHROME_PATH", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
cache_dir = "~/pv-cache"

[site]
base_url = "https://www.transfermarkt.com/"
career_ended_marker = "Retired"
contract_label = "Contract expires"

[resolver]
concurrency = 5
score_threshold = 85
career_ended_policy = "Fallback"

[cache]
enabled = false
ttl_seconds = 60

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected to load %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.CacheDir != filepath.Join(tempHome, "pv-cache") {
		t.Fatalf("unexpected cache dir: %q", cfg.Paths.CacheDir)
	}
	if cfg.Site.BaseURL != "https://www.transfermarkt.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Site.BaseURL)
	}
	if cfg.Site.CareerEndedLabel != "Retired" {
		t.Fatalf("expected label to follow custom marker, got %q", cfg.Site.CareerEndedLabel)
	}
	if cfg.Resolver.Concurrency != 5 || cfg.Resolver.ScoreThreshold != 85 {
		t.Fatalf("unexpected resolver settings: %+v", cfg.Resolver)
	}
	if cfg.Resolver.CareerEndedPolicy != config.PolicyFallback {
		t.Fatalf("expected policy lowercased, got %q", cfg.Resolver.CareerEndedPolicy)
	}
	if cfg.Cache.Enabled {
		t.Fatal("expected cache disabled")
	}
	if cfg.CacheTTL() != time.Minute {
		t.Fatalf("unexpected ttl: %s", cfg.CacheTTL())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging settings: %+v", cfg.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PLAYERVALUE_BASE_URL", "http://127.0.0.1:8080/")
	t.Setenv("PLAYERVALUE_CHROME_PATH", "chromium")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Site.BaseURL != "http://127.0.0.1:8080" {
		t.Fatalf("expected env base url, got %q", cfg.Site.BaseURL)
	}
	if cfg.Browser.ExecPath != "chromium" {
		t.Fatalf("expected bare executable name kept, got %q", cfg.Browser.ExecPath)
	}
}

func TestCareerEndedLabelFollowsMarker(t *testing.T) {
	if label := config.Default().Site.CareerEndedLabel; label != "" {
		t.Fatalf("default label should be left for the marker to fill, got %q", label)
	}

	cases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "defaults", content: "", want: "Fin de carrière"},
		{name: "custom marker", content: "[site]\ncareer_ended_marker = \"Retired\"\n", want: "Retired"},
		{name: "explicit label", content: "[site]\ncareer_ended_marker = \"Retired\"\ncareer_ended_label = \"Ended\"\n", want: "Ended"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Setenv("PLAYERVALUE_BASE_URL", "")
			t.Setenv("PLAYERVALUE_CHROME_PATH", "")
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, _, _, err := config.Load(configPath)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if cfg.Site.CareerEndedLabel != tc.want {
				t.Fatalf("career ended label = %q, want %q", cfg.Site.CareerEndedLabel, tc.want)
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[resolver]\nthreshold = 80\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "threshold") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"concurrency", func(c *config.Config) { c.Resolver.Concurrency = 0 }, "resolver.concurrency"},
		{"threshold", func(c *config.Config) { c.Resolver.ScoreThreshold = 120 }, "resolver.score_threshold"},
		{"policy", func(c *config.Config) { c.Resolver.CareerEndedPolicy = "sometimes" }, "career_ended_policy"},
		{"scheme", func(c *config.Config) { c.Site.BaseURL = "ftp://example.com" }, "site.base_url"},
		{"host", func(c *config.Config) { c.Site.BaseURL = "https://" }, "host"},
		{"query", func(c *config.Config) { c.Site.SearchPath = "/search?q=" }, "site.search_path"},
		{"consent", func(c *config.Config) { c.Resolver.ConsentRetries = 9 }, "consent_retries"},
		{"level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"ttl", func(c *config.Config) { c.Cache.TTLSeconds = -1 }, "cache.ttl_seconds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PLAYERVALUE_BASE_URL", "")
	t.Setenv("PLAYERVALUE_CHROME_PATH", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	fromSample, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	fromDefaults, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}

	a, err := fromSample.Encode()
	if err != nil {
		t.Fatalf("encode sample: %v", err)
	}
	b, err := fromDefaults.Encode()
	if err != nil {
		t.Fatalf("encode defaults: %v", err)
	}
	if a != b {
		t.Fatalf("sample config drifted from defaults:\nsample:\n%s\ndefaults:\n%s", a, b)
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := config.Default()
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal([]byte(encoded), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Resolver != cfg.Resolver {
		t.Fatalf("resolver section changed: %+v vs %+v", decoded.Resolver, cfg.Resolver)
	}
}
