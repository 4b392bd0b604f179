package preflight

import (
	"context"

	"playervalue/internal/config"
	"playervalue/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Options toggles the checks RunAll performs.
type Options struct {
	// SkipSite omits the network probe of the directory site.
	SkipSite bool
}

// RunAll executes the readiness checks for cfg.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		fromStatus(deps.CheckChrome(cfg.Browser.ExecPath)),
		CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Cache.Enabled {
		results = append(results, CheckCache(ctx, cfg))
	}
	if !opts.SkipSite {
		results = append(results, CheckSite(ctx, cfg.Site.BaseURL, cfg.Browser.UserAgent))
	}
	return results
}

// Failed reports whether any required check did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}

func fromStatus(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional}
	if status.Available {
		result.Detail = status.Command
	} else {
		result.Detail = status.Detail
	}
	return result
}
