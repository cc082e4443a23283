package config

import (
	"os"
	"strings"
)

// Environment variables that override file values
const (
	EnvAddr        = "CONTRACTLENS_ADDR"
	EnvAnalysisURL = "CONTRACTLENS_ANALYSIS_URL"
	EnvCORSOrigin  = "CONTRACTLENS_CORS_ORIGIN"
)

// applyEnv overrides values set in the environment
func (c *Config) applyEnv() {
	if v := envValue(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := envValue(EnvAnalysisURL); v != "" {
		c.Analysis.BaseURL = v
	}
	if v := envValue(EnvCORSOrigin); v != "" {
		c.Server.CORSOrigin = v
	}
}

func envValue(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}
