package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"playervalue/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckSite_OK(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	result := CheckSite(context.Background(), srv.URL, "playervalue-test")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if gotUA != "playervalue-test" {
		t.Fatalf("user agent = %q", gotUA)
	}
}

func TestCheckSite_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if result := CheckSite(context.Background(), srv.URL, ""); result.Passed {
		t.Fatal("expected failure for 502")
	}
}

func TestCheckSite_MissingURL(t *testing.T) {
	if result := CheckSite(context.Background(), " ", ""); result.Passed {
		t.Fatal("expected failure for missing URL")
	}
}

func TestCheckCache(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	result := CheckCache(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, Options{}); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_WithoutSite(t *testing.T) {
	binDir := t.TempDir()
	chrome := filepath.Join(binDir, "chrome")
	if err := os.WriteFile(chrome, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := testsupport.NewConfig(t)
	cfg.Browser.ExecPath = chrome
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg, Options{SkipSite: true})
	// chrome + cache dir + log dir + cache file
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if Failed(results) {
		t.Fatal("expected no failures")
	}
}

func TestRunAll_IncludesSite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Site.BaseURL = srv.URL
	cfg.Cache.Enabled = false
	cfg.Browser.ExecPath = filepath.Join(t.TempDir(), "missing-chrome")

	results := RunAll(context.Background(), cfg, Options{})
	found := false
	for _, r := range results {
		if r.Name == "Directory site" {
			found = true
			if !r.Passed {
				t.Errorf("site check failed: %s", r.Detail)
			}
		}
	}
	if !found {
		t.Fatal("expected site check in results")
	}
	if !Failed(results) {
		t.Fatal("expected missing chrome and directories to fail")
	}
}
