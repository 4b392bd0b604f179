package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// Site describes the directory being queried: where it lives and how its
// rendered pages are laid out.
type Site struct {
	BaseURL               string `toml:"base_url"`
	SearchPath            string `toml:"search_path"`
	ResultTableSelector   string `toml:"result_table_selector"`
	NameLinkSelector      string `toml:"name_link_selector"`
	ValueCellSelector     string `toml:"value_cell_selector"`
	CareerEndedMarker     string `toml:"career_ended_marker"`
	CareerEndedLabel      string `toml:"career_ended_label"`
	ContractLabel         string `toml:"contract_label"`
	BirthLabel            string `toml:"birth_label"`
	BirthDateSelector     string `toml:"birth_date_selector"`
	ConsentIframeID       string `toml:"consent_iframe_id"`
	ConsentButtonSelector string `toml:"consent_button_selector"`
	AcceptLanguage        string `toml:"accept_language"`
}

// Browser contains headless Chrome settings. Timeouts are in seconds.
type Browser struct {
	Headless        bool   `toml:"headless"`
	WindowWidth     int    `toml:"window_width"`
	WindowHeight    int    `toml:"window_height"`
	DisableImages   bool   `toml:"disable_images"`
	PageLoadTimeout int    `toml:"page_load_timeout"`
	ImplicitWait    int    `toml:"implicit_wait"`
	ExecPath        string `toml:"exec_path"`
	UserAgent       string `toml:"user_agent"`
}

// Resolver contains matching and concurrency settings.
type Resolver struct {
	// Concurrency is the number of browser sessions, and so the ceiling on
	// simultaneous requests to the site.
	Concurrency       int     `toml:"concurrency"`
	ScoreThreshold    float64 `toml:"score_threshold"`
	MinNameLength     int     `toml:"min_name_length"`
	ConsentRetries    int     `toml:"consent_retries"`
	CareerEndedPolicy string  `toml:"career_ended_policy"`
}

// Cache contains configuration for the resolved-record cache.
type Cache struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"` // Default: <cache_dir>/players.db
	TTLSeconds int    `toml:"ttl_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Metrics contains configuration for the prometheus textfile export.
type Metrics struct {
	TextfilePath string `toml:"textfile_path"`
}

// Config encapsulates all configuration values for playervalue.
//
// Configuration sections by subsystem:
//   - Paths: cache and log directories
//   - Site: directory URL, page selectors, and label texts
//   - Browser: headless Chrome settings
//   - Resolver: matching threshold, policies, and concurrency
//   - Cache: resolved-record cache location and freshness
//   - Logging: log format, level, and retention
//   - Metrics: prometheus textfile output
type Config struct {
	Paths    Paths    `toml:"paths"`
	Site     Site     `toml:"site"`
	Browser  Browser  `toml:"browser"`
	Resolver Resolver `toml:"resolver"`
	Cache    Cache    `toml:"cache"`
	Logging  Logging  `toml:"logging"`
	Metrics  Metrics  `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("playervalue.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the cache and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CacheTTL returns the cache freshness window.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// PageLoadTimeout returns the navigation bound.
func (c *Config) PageLoadTimeout() time.Duration {
	return time.Duration(c.Browser.PageLoadTimeout) * time.Second
}

// ImplicitWait returns the element wait bound.
func (c *Config) ImplicitWait() time.Duration {
	return time.Duration(c.Browser.ImplicitWait) * time.Second
}

// LockPath returns the file used to keep two runs from sharing a cache.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.CacheDir, "playervalue.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders cfg as TOML, used by `config show`.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}
