package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Transport != "stdio" {
		t.Errorf("transport = %q, want stdio", cfg.Server.Transport)
	}
	if cfg.Server.Addr() != "127.0.0.1:8081" {
		t.Errorf("addr = %q, want 127.0.0.1:8081", cfg.Server.Addr())
	}
	if cfg.Reddit.BaseURL != "https://www.reddit.com" {
		t.Errorf("base_url = %q", cfg.Reddit.BaseURL)
	}
	if cfg.Reddit.Timeout != 15*time.Second {
		t.Errorf("timeout = %v, want 15s", cfg.Reddit.Timeout)
	}
	if cfg.Reddit.UserAgent == "" {
		t.Error("user agent is empty")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REDDITMCP_SERVER_PORT", "9000")
	t.Setenv("REDDITMCP_REDDIT_BASE_URL", "http://localhost:8474")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Reddit.BaseURL != "http://localhost:8474" {
		t.Errorf("base_url = %q", cfg.Reddit.BaseURL)
	}
}
