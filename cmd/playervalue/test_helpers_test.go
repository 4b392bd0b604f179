package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playervalue/internal/browser"
	"playervalue/internal/config"
	"playervalue/internal/testsupport"
)

const judeHref = "/jude-bellingham/profil/spieler/581678"

type cliTestEnv struct {
	cfg        *config.Config
	site       *testsupport.FakeSite
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("PLAYERVALUE_BASE_URL", "")
	t.Setenv("PLAYERVALUE_CHROME_PATH", "")
	cfg := testsupport.NewConfig(t, testsupport.WithConcurrency(2))
	cfg.Logging.Level = "error"

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	site := testsupport.NewFakeSite()
	site.AddSearch("jude bellingham",
		testsupport.Row{Name: "Jude Bellingham", Href: judeHref, Value: "120,00 mio. €"},
	)
	site.AddDetail(judeHref, "Jude Bellingham", "30 juin 2029", "29 juin 2003 (21)")

	return &cliTestEnv{cfg: cfg, site: site, configPath: configPath}
}

func (env *cliTestEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := buildRootCommand(func(*config.Config) browser.Factory {
		return env.site.Factory()
	})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
