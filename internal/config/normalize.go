package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSite()
	if err := c.normalizeBrowser(); err != nil {
		return err
	}
	c.normalizeResolver()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeLogging()
	return c.normalizeMetrics()
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSite() {
	if value, ok := os.LookupEnv("PLAYERVALUE_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Site.BaseURL = value
	}
	c.Site.BaseURL = strings.TrimRight(strings.TrimSpace(c.Site.BaseURL), "/")
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = defaultBaseURL
	}
	c.Site.SearchPath = strings.TrimSpace(c.Site.SearchPath)
	if c.Site.SearchPath == "" {
		c.Site.SearchPath = defaultSearchPath
	}
	if !strings.HasPrefix(c.Site.SearchPath, "/") {
		c.Site.SearchPath = "/" + c.Site.SearchPath
	}

	defaults := []struct {
		field    *string
		fallback string
	}{
		{&c.Site.ResultTableSelector, defaultResultTableSelector},
		{&c.Site.NameLinkSelector, defaultNameLinkSelector},
		{&c.Site.ValueCellSelector, defaultValueCellSelector},
		{&c.Site.CareerEndedMarker, defaultCareerEndedMarker},
		{&c.Site.ContractLabel, defaultContractLabel},
		{&c.Site.BirthLabel, defaultBirthLabel},
		{&c.Site.BirthDateSelector, defaultBirthDateSelector},
		{&c.Site.ConsentIframeID, defaultConsentIframeID},
		{&c.Site.ConsentButtonSelector, defaultConsentButtonSelector},
	}
	for _, d := range defaults {
		*d.field = strings.TrimSpace(*d.field)
		if *d.field == "" {
			*d.field = d.fallback
		}
	}
	c.Site.CareerEndedLabel = strings.TrimSpace(c.Site.CareerEndedLabel)
	if c.Site.CareerEndedLabel == "" {
		c.Site.CareerEndedLabel = c.Site.CareerEndedMarker
	}
	c.Site.ConsentIframeID = strings.TrimPrefix(c.Site.ConsentIframeID, "#")
	c.Site.AcceptLanguage = strings.TrimSpace(c.Site.AcceptLanguage)
}

func (c *Config) normalizeBrowser() error {
	if value, ok := os.LookupEnv("PLAYERVALUE_CHROME_PATH"); ok && strings.TrimSpace(value) != "" {
		c.Browser.ExecPath = value
	}
	c.Browser.ExecPath = strings.TrimSpace(c.Browser.ExecPath)
	if c.Browser.ExecPath != "" && strings.ContainsRune(c.Browser.ExecPath, filepath.Separator) {
		var err error
		if c.Browser.ExecPath, err = expandPath(c.Browser.ExecPath); err != nil {
			return fmt.Errorf("browser.exec_path: %w", err)
		}
	}
	c.Browser.UserAgent = strings.TrimSpace(c.Browser.UserAgent)
	if c.Browser.WindowWidth == 0 {
		c.Browser.WindowWidth = defaultWindowWidth
	}
	if c.Browser.WindowHeight == 0 {
		c.Browser.WindowHeight = defaultWindowHeight
	}
	if c.Browser.PageLoadTimeout == 0 {
		c.Browser.PageLoadTimeout = defaultPageLoadTimeout
	}
	return nil
}

func (c *Config) normalizeResolver() {
	if c.Resolver.Concurrency == 0 {
		c.Resolver.Concurrency = defaultConcurrency
	}
	c.Resolver.CareerEndedPolicy = strings.ToLower(strings.TrimSpace(c.Resolver.CareerEndedPolicy))
	if c.Resolver.CareerEndedPolicy == "" {
		c.Resolver.CareerEndedPolicy = defaultCareerEndedPolicy
	}
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = filepath.Join(c.Paths.CacheDir, defaultCacheFile)
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = defaultCacheTTLSeconds
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func (c *Config) normalizeMetrics() error {
	var err error
	if c.Metrics.TextfilePath, err = expandPath(strings.TrimSpace(c.Metrics.TextfilePath)); err != nil {
		return fmt.Errorf("metrics.textfile_path: %w", err)
	}
	return nil
}
