package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const maxConcurrency = 16

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSite(); err != nil {
		return err
	}
	if err := c.validateBrowser(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSite() error {
	parsed, err := url.Parse(c.Site.BaseURL)
	if err != nil {
		return fmt.Errorf("site.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("site.base_url must use http or https, got %q", c.Site.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("site.base_url must include a host, got %q", c.Site.BaseURL)
	}
	if strings.ContainsAny(c.Site.SearchPath, "?#") {
		return errors.New("site.search_path must not contain a query or fragment")
	}
	return nil
}

func (c *Config) validateBrowser() error {
	if c.Browser.WindowWidth < 0 || c.Browser.WindowHeight < 0 {
		return errors.New("browser.window_width and browser.window_height must be positive")
	}
	if c.Browser.PageLoadTimeout < 0 {
		return errors.New("browser.page_load_timeout must be positive")
	}
	if c.Browser.ImplicitWait < 0 {
		return errors.New("browser.implicit_wait must be >= 0")
	}
	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.Concurrency < 1 || c.Resolver.Concurrency > maxConcurrency {
		return fmt.Errorf("resolver.concurrency must be between 1 and %d", maxConcurrency)
	}
	if c.Resolver.ScoreThreshold <= 0 || c.Resolver.ScoreThreshold > 100 {
		return errors.New("resolver.score_threshold must be in (0, 100]")
	}
	if c.Resolver.MinNameLength < 0 {
		return errors.New("resolver.min_name_length must be >= 0")
	}
	if c.Resolver.ConsentRetries < 0 || c.Resolver.ConsentRetries > 5 {
		return errors.New("resolver.consent_retries must be between 0 and 5")
	}
	switch c.Resolver.CareerEndedPolicy {
	case PolicyAllow, PolicyFallback, PolicyExclude:
	default:
		return fmt.Errorf("resolver.career_ended_policy must be one of %s, %s, %s; got %q",
			PolicyAllow, PolicyFallback, PolicyExclude, c.Resolver.CareerEndedPolicy)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTLSeconds < 0 {
		return errors.New("cache.ttl_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
