package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := defaultConfig()
	want.UI.APIBaseURL = "http://localhost:8080"
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GERENCIADOR_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("GERENCIADOR_DATABASE_DRIVER", "SQLite")
	t.Setenv("GERENCIADOR_UI_DEBOUNCE", "250ms")
	t.Setenv("DATABASE_URL", "postgres://localhost/itens")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("expected addr from env, got %q", cfg.Server.Addr)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected lower-cased driver, got %q", cfg.Database.Driver)
	}
	if cfg.Database.DSN != "postgres://localhost/itens" {
		t.Errorf("expected DATABASE_URL to be honoured, got %q", cfg.Database.DSN)
	}
	if cfg.UI.Debounce != 250*time.Millisecond {
		t.Errorf("expected debounce 250ms, got %v", cfg.UI.Debounce)
	}
	if cfg.UI.APIBaseURL != "http://127.0.0.1:9000" {
		t.Errorf("expected api base url derived from addr, got %q", cfg.UI.APIBaseURL)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gerenciador.yaml")
	content := `
server:
  api_path: server.php/
database:
  driver: sqlite
  dsn: itens.db
  query_timeout: -1s
redis:
  addr: localhost:6379
rate_limit:
  rps: -3
  burst: 0
log:
  format: JSON
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	v := viper.New()
	v.Set("config", path)
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.APIPath != "/server.php" {
		t.Errorf("expected normalized api path, got %q", cfg.Server.APIPath)
	}
	if cfg.Database.DSN != "itens.db" {
		t.Errorf("expected dsn from file, got %q", cfg.Database.DSN)
	}
	if cfg.Database.QueryTimeout != 3*time.Second {
		t.Errorf("expected default query timeout, got %v", cfg.Database.QueryTimeout)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("expected redis addr, got %q", cfg.Redis.Addr)
	}
	if cfg.RateLimit.RPS != 0 || cfg.RateLimit.Burst != 1 {
		t.Errorf("expected disabled limiter with burst 1, got %+v", cfg.RateLimit)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected json format, got %q", cfg.Log.Format)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	v := viper.New()
	v.Set("config", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(v); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
