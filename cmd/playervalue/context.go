package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"playervalue/internal/browser"
	"playervalue/internal/cache"
	"playervalue/internal/config"
	"playervalue/internal/logging"
)

// factoryFunc builds the browser session factory for a configuration.
type factoryFunc func(*config.Config) browser.Factory

func chromeFactory(cfg *config.Config) browser.Factory {
	return browser.NewChromeFactory(browser.Options{
		Headless:        cfg.Browser.Headless,
		WindowWidth:     cfg.Browser.WindowWidth,
		WindowHeight:    cfg.Browser.WindowHeight,
		DisableImages:   cfg.Browser.DisableImages,
		PageLoadTimeout: cfg.PageLoadTimeout(),
		ImplicitWait:    cfg.ImplicitWait(),
		ExecPath:        cfg.Browser.ExecPath,
		UserAgent:       cfg.Browser.UserAgent,
		AcceptLanguage:  cfg.Site.AcceptLanguage,
		ConsentFrameID:  cfg.Site.ConsentIframeID,
		ConsentButton:   cfg.Site.ConsentButtonSelector,
	})
}

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	factory      factoryFunc

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, factory factoryFunc) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		factory:      factory,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				cfg.Logging.Level = level
				if err := cfg.Validate(); err != nil {
					c.configErr = err
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

// withCache opens the configured cache for the duration of fn.
func (c *commandContext) withCache(ctx context.Context, fn func(*cache.Cache) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := cache.Open(ctx, cache.Options{
		Path:     cfg.Cache.Path,
		TTL:      cfg.CacheTTL(),
		MaxConns: 1,
	})
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func requireArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}
}
