package config

import (
	"strings"
	"testing"
)

type portConfig struct {
	Port int `env:"GROUNDBREAK_TEST_PORT" envDefault:"9090"`
}

func TestParseEnvAppliesDefault(t *testing.T) {
	var cfg portConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv() error = %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("Port = %d, want 9090", cfg.Port)
	}
}

func TestParseEnvReadsVariable(t *testing.T) {
	t.Setenv("GROUNDBREAK_TEST_PORT", "7007")

	var cfg portConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv() error = %v", err)
	}
	if cfg.Port != 7007 {
		t.Fatalf("Port = %d, want 7007", cfg.Port)
	}
}

func TestParseEnvWrapsParseFailures(t *testing.T) {
	t.Setenv("GROUNDBREAK_TEST_PORT", "not-a-port")

	var cfg portConfig
	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("ParseEnv() error = nil, want parse failure")
	}
	if !strings.Contains(err.Error(), "load env config:") {
		t.Fatalf("error = %v, want load env config prefix", err)
	}
}
