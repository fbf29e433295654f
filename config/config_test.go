package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sample = `
encoder:
  provider: hash
  dimension: 128
  timeout: 2s
router:
  top_k: 3
  default_route: sql
  sync_mode: full
routes:
  - name: faq
    utterances: ["What is your return policy?"]
    threshold: 0.7
  - name: sql
    utterances: ["Show me Nike shoes", "Find shoes with high ratings"]
chains:
  - route: sql
    transport: nats
    subject: chains.sql
    timeout: 5s
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Encoder.Dimension != 128 || cfg.Encoder.Timeout != 2*time.Second {
		t.Errorf("unexpected encoder config %+v", cfg.Encoder)
	}
	if cfg.Router.TopK != 3 || cfg.Router.DefaultThreshold != 0.5 || cfg.Router.DefaultRoute != "sql" {
		t.Errorf("unexpected router config %+v", cfg.Router)
	}
	if cfg.Index.Backend != "memory" || cfg.HTTPServer.Port != 8080 {
		t.Errorf("defaults not applied: %+v %+v", cfg.Index, cfg.HTTPServer)
	}

	if len(cfg.Routes) != 2 || cfg.Routes[0].Name != "faq" || len(cfg.Routes[1].Utterances) != 2 {
		t.Fatalf("unexpected routes %+v", cfg.Routes)
	}
	if cfg.Routes[0].Threshold == nil || *cfg.Routes[0].Threshold != 0.7 {
		t.Errorf("expected faq threshold 0.7, got %v", cfg.Routes[0].Threshold)
	}
	if cfg.Routes[1].Threshold != nil {
		t.Errorf("expected sql threshold unset, got %v", *cfg.Routes[1].Threshold)
	}

	if len(cfg.Chains) != 1 || cfg.Chains[0].Subject != "chains.sql" || cfg.Chains[0].Timeout != 5*time.Second {
		t.Errorf("unexpected chains %+v", cfg.Chains)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ENCODER_DIMENSION", "64")
	t.Setenv("QDRANT_URL", "http://qdrant:6333")
	t.Setenv("INDEX_BACKEND", "qdrant")

	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Encoder.Dimension != 64 {
		t.Errorf("expected env dimension 64, got %d", cfg.Encoder.Dimension)
	}
	if cfg.Index.Backend != "qdrant" || cfg.Index.Qdrant.URL != "http://qdrant:6333" {
		t.Errorf("unexpected index config %+v", cfg.Index)
	}
}

func TestLoadShippedConfig(t *testing.T) {
	cfg, err := Load("config.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Routes) != 2 || len(cfg.Routes[0].Utterances) != 13 || len(cfg.Routes[1].Utterances) != 15 {
		t.Errorf("unexpected shipped routes")
	}
	if cfg.Router.DefaultRoute != "sql" {
		t.Errorf("expected sql default route, got %q", cfg.Router.DefaultRoute)
	}
	if cfg.HTTPServer.AdminToken == "" {
		t.Error("expected the shipped config to guard the admin routes")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for explicit missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Encoder: EncoderConfig{Provider: "hash", Dimension: 8},
			Index:   IndexConfig{Backend: "memory"},
			Router:  RouterConfig{TopK: 5, SyncMode: "full"},
			Routes:  []RouteConfig{{Name: "faq", Utterances: []string{"a"}}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Valid", func(*Config) {}, ""},
		{"Unknown Provider", func(c *Config) { c.Encoder.Provider = "bert" }, "unknown encoder provider"},
		{"Voyage Without Key", func(c *Config) { c.Encoder.Provider = "voyage" }, "voyage.api_key"},
		{"Zero Dimension", func(c *Config) { c.Encoder.Dimension = 0 }, "dimension"},
		{"Unknown Backend", func(c *Config) { c.Index.Backend = "faiss" }, "unknown index backend"},
		{"Qdrant Without URL", func(c *Config) { c.Index.Backend = "qdrant" }, "index.qdrant.url"},
		{"Snapshot Without Path", func(c *Config) { c.Snapshot.Enabled = true }, "snapshot.path"},
		{"Bad TopK", func(c *Config) { c.Router.TopK = 0 }, "top_k"},
		{"Bad Sync Mode", func(c *Config) { c.Router.SyncMode = "lazy" }, "sync_mode"},
		{"No Routes", func(c *Config) { c.Routes = nil }, "no routes"},
		{"Production Without Admin Token", func(c *Config) { c.Environment.Name = "production" }, "admin_token"},
		{"Production With Admin Token", func(c *Config) {
			c.Environment.Name = "production"
			c.HTTPServer.AdminToken = "s3cret"
		}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
