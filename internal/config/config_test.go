package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleHCL = `
server {
  listen           = "0.0.0.0:8080"
  shutdown_timeout = "3s"
}

data {
  schemes   = "/srv/schemes"
  templates = "/srv/templates"
}

resolver {
  threshold = 0.9
}

log {
  verbosity = 2
  file      = "/var/log/base16sh.log"
}
`

func writeTempHCL(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "base16sh.hcl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeTempHCL(t, sampleHCL))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Config{
		Server:   Server{Listen: "0.0.0.0:8080", ShutdownTimeout: 3 * time.Second},
		Data:     Data{Schemes: "/srv/schemes", Templates: "/srv/templates"},
		Resolver: Resolver{Threshold: 0.9},
		Log:      Log{Verbosity: 2, File: "/var/log/base16sh.log"},
	}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadPartial(t *testing.T) {
	cfg, err := Load(writeTempHCL(t, "resolver {\n  threshold = 0.5\n}\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	want.Resolver.Threshold = 0.5
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := Load(writeTempHCL(t, ""))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("empty file should give defaults, got %+v", cfg)
	}
}

func TestLoadOrDefaultMissing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.hcl"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.hcl")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestEnvFunction(t *testing.T) {
	src := `log {
  file = env("BASE16SH_TEST_LOG", "fallback.log")
}
`
	t.Setenv("BASE16SH_TEST_LOG", "")
	cfg, err := Parse([]byte(src), "test.hcl")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Log.File != "fallback.log" {
		t.Errorf("unset env: File = %q, want fallback.log", cfg.Log.File)
	}

	t.Setenv("BASE16SH_TEST_LOG", "/tmp/from-env.log")
	cfg, err = Parse([]byte(src), "test.hcl")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Log.File != "/tmp/from-env.log" {
		t.Errorf("set env: File = %q", cfg.Log.File)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"syntax", "server {", "parsing HCL"},
		{"unknown block", "bogus {}\n", "decoding config"},
		{"unknown attribute", "server {\n  port = 80\n}\n", "decoding config"},
		{"wrong type", "resolver {\n  threshold = \"high\"\n}\n", "decoding config"},
		{"bad duration", "server {\n  shutdown_timeout = \"soon\"\n}\n", "shutdown_timeout"},
		{"zero threshold", "resolver {\n  threshold = 0\n}\n", "threshold"},
		{"threshold above one", "resolver {\n  threshold = 1.5\n}\n", "threshold"},
		{"empty listen", "server {\n  listen = \"\"\n}\n", "listen"},
		{"empty schemes", "data {\n  schemes = \"\"\n}\n", "data.schemes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "test.hcl")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() is invalid: %v", err)
	}
}
