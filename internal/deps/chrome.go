package deps

import (
	"os/exec"
	"strings"
)

// chromeCandidates are the executable names probed on PATH when no browser
// path is configured, in the order chromedp's allocator tries them.
var chromeCandidates = []string{
	"headless_shell",
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"google-chrome-beta",
	"google-chrome-unstable",
}

// ResolveChromePath returns the browser command a session will launch. A
// configured path wins; otherwise the first candidate found on PATH is
// returned, or "google-chrome" when none is.
func ResolveChromePath(configured string) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	for _, name := range chromeCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return "google-chrome"
}

// CheckChrome reports whether the browser used for scraping can be started.
func CheckChrome(configured string) Status {
	return CheckBinaries([]Requirement{{
		Name:        "Chrome",
		Command:     ResolveChromePath(configured),
		Description: "Required to load directory pages",
	}})[0]
}
