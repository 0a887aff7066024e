package config

import "testing"

func TestGetDefaults(t *testing.T) {
	cfg := GetDefaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Engine.HighThreshold != 70 || cfg.Engine.MediumThreshold != 40 {
		t.Errorf("unexpected default thresholds: high=%d medium=%d",
			cfg.Engine.HighThreshold, cfg.Engine.MediumThreshold)
	}
	if len(cfg.Auth.Keys) == 0 {
		t.Error("expected default API keys")
	}
	if err := validateConfig(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad batch size", func(c *Config) { c.Server.MaxBatchSize = 0 }},
		{"bad cache backend", func(c *Config) { c.Cache.Backend = "sqlite" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"inverted thresholds", func(c *Config) { c.Engine.MediumThreshold = 90 }},
	}

	for _, tc := range cases {
		cfg := GetDefaults()
		tc.mutate(cfg)
		if err := validateConfig(cfg); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
