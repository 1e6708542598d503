package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNPassthrough(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://user:pw@host:5432/reloved"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://user:pw@host:5432/reloved" {
		t.Fatalf("DSN mutated: %s", cfg.DSN)
	}
}

func TestEnsureDSNBuildsFromLegacyParts(t *testing.T) {
	cfg := DBConfig{
		LegacyHost:     "db.internal",
		LegacyPort:     5433,
		LegacyUser:     "reloved",
		LegacyPassword: "s3cret",
		LegacyName:     "reloved",
		LegacySSLMode:  "require",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, part := range []string{"postgres://", "reloved:s3cret@", "db.internal:5433", "sslmode=require"} {
		if !strings.Contains(cfg.DSN, part) {
			t.Fatalf("DSN %q missing %q", cfg.DSN, part)
		}
	}
}

func TestEnsureDSNReportsMissingParts(t *testing.T) {
	cfg := DBConfig{LegacyHost: "db.internal"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatal("expected error for missing legacy vars")
	}
	if !strings.Contains(err.Error(), EnvDBUser) || !strings.Contains(err.Error(), EnvDBName) {
		t.Fatalf("error should name missing vars: %v", err)
	}
}

func TestAppEnvHelpers(t *testing.T) {
	if !(AppConfig{Env: "Dev"}).IsDev() {
		t.Fatal("case-insensitive dev check failed")
	}
	if !(AppConfig{Env: "PROD"}).IsProd() {
		t.Fatal("case-insensitive prod check failed")
	}
}
