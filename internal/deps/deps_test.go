package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank command status: %#v", results[2])
	}
}

func TestResolveChromePathPrefersConfigured(t *testing.T) {
	if got := ResolveChromePath(" /opt/chrome/chrome "); got != "/opt/chrome/chrome" {
		t.Fatalf("ResolveChromePath = %q", got)
	}
}

func TestResolveChromePathSearchesPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs are unix-only")
	}
	binDir := t.TempDir()
	chromium := filepath.Join(binDir, "chromium")
	if err := os.WriteFile(chromium, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	if got := ResolveChromePath(""); got != chromium {
		t.Fatalf("ResolveChromePath = %q, want %q", got, chromium)
	}
	status := CheckChrome("")
	if !status.Available || status.Command != chromium {
		t.Fatalf("unexpected status: %#v", status)
	}
}

func TestCheckChromeNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	status := CheckChrome("")
	if status.Available {
		t.Fatal("expected chrome resolution to fail")
	}
	if status.Command != "google-chrome" || status.Detail == "" {
		t.Fatalf("unexpected status: %#v", status)
	}
}
