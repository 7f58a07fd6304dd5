package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FortovEgor/ServeMe/logging"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.LogFile != "log.txt" {
		t.Errorf("expected log.txt, got %q", cfg.LogFile)
	}
	if !cfg.Syslog {
		t.Error("expected syslog on by default")
	}
	if !cfg.Cache {
		t.Error("expected cache on by default")
	}
	if cfg.LegacyCacheKeys {
		t.Error("expected corrected cache keys by default")
	}
	if cfg.Telemetry.Enabled {
		t.Error("expected telemetry off by default")
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.Addr())
	}
	if cfg.MinLevel() != logging.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.MinLevel())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serveme.yaml")
	contents := `
host: 127.0.0.1
port: 9001
log_file: custom.log
log_level: debug
syslog: false
cache: false
telemetry:
  enabled: true
  service_name: demo
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 9001 {
		t.Errorf("expected port 9001, got %d", cfg.Port)
	}
	if cfg.LogFile != "custom.log" {
		t.Errorf("expected custom.log, got %q", cfg.LogFile)
	}
	if cfg.Syslog {
		t.Error("expected syslog off")
	}
	if cfg.Cache {
		t.Error("expected cache off")
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.ServiceName != "demo" {
		t.Errorf("expected telemetry enabled for demo, got %+v", cfg.Telemetry)
	}
	if cfg.Addr() != "127.0.0.1:9001" {
		t.Errorf("expected 127.0.0.1:9001, got %q", cfg.Addr())
	}
	if cfg.MinLevel() != logging.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.MinLevel())
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SERVEME_PORT", "9090")
	t.Setenv("SERVEME_LOG_LEVEL", "error")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090 from the environment, got %d", cfg.Port)
	}
	if cfg.MinLevel() != logging.LevelError {
		t.Errorf("expected error level from the environment, got %v", cfg.MinLevel())
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for an explicit missing file")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"port out of range": "port: 70000\n",
		"unknown log level": "log_level: verbose\n",
		"negative max size": "log_max_size: -1\n",
	}

	for name, contents := range cases {
		path := filepath.Join(t.TempDir(), "serveme.yaml")
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLoadRoutes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	contents := `
routes:
  - path: /
    response: "Hello, World!"
  - path: /submit
    method: POST
    response: accepted
  - path: /page
    file: page.html
    content_type: text/html
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	routes, err := LoadRoutes(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 3 {
		t.Fatalf("expected 3 routes, got %d", len(routes))
	}

	if routes[0].Method != "GET" {
		t.Errorf("expected the method to default to GET, got %q", routes[0].Method)
	}
	if source := routes[0].Source(); source.Value != "Hello, World!" {
		t.Errorf("expected inline source, got %q", source.Value)
	}
	if source := routes[2].Source(); !strings.HasPrefix(source.Value, "@file:") {
		t.Errorf("expected a file sentinel, got %q", source.Value)
	}
	if source := routes[2].Source(); source.ContentType != "text/html" {
		t.Errorf("expected text/html, got %q", source.ContentType)
	}
}

func TestLoadRoutesValidation(t *testing.T) {
	cases := map[string]string{
		"missing path":       "routes:\n  - response: hi\n",
		"relative path":      "routes:\n  - path: page\n    response: hi\n",
		"unsupported method": "routes:\n  - path: /x\n    method: DELETE\n    response: hi\n",
		"response and file":  "routes:\n  - path: /x\n    response: hi\n    file: x.html\n",
	}

	for name, contents := range cases {
		path := filepath.Join(t.TempDir(), "routes.yaml")
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadRoutes(path); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
