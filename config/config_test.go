package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("OCR_PATHS", "scans/tabu.txt, scans/municipal.txt ,")
	t.Setenv("MAX_CONCURRENCY", "7")
	t.Setenv("CACHE_TTL_MINUTES", "5")
	t.Setenv("POSTGRES_ENABLED", "true")
	t.Setenv("PDF_ENABLED", "not-a-bool")
	t.Setenv("CONTRACT_FORMAT", "YAML")

	c := Load()

	if len(c.OCRPaths) != 2 || c.OCRPaths[1] != "scans/municipal.txt" {
		t.Errorf("OCRPaths = %q", c.OCRPaths)
	}
	if c.MaxConcurrency != 7 {
		t.Errorf("MaxConcurrency = %d; want 7", c.MaxConcurrency)
	}
	if c.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v; want 5m", c.CacheTTL)
	}
	if !c.PostgresEnabled {
		t.Error("PostgresEnabled = false; want true")
	}
	if c.PDFEnabled {
		t.Error("an unparsable bool must fall back to the default")
	}
	if c.ContractFormat != "yaml" {
		t.Errorf("ContractFormat = %q; want yaml", c.ContractFormat)
	}
}

func TestLoadCacheTTLZero(t *testing.T) {
	t.Setenv("CACHE_TTL_MINUTES", "0")
	if c := Load(); c.CacheTTL != 0 {
		t.Errorf("CacheTTL = %v; want 0", c.CacheTTL)
	}
}

func TestDSN(t *testing.T) {
	c := &Config{
		PostgresHost: "db", PostgresPort: "5432", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "contracts", PostgresSSLMode: "disable",
	}
	dsn := c.DSN()
	for _, want := range []string{"host=db", "dbname=contracts", "sslmode=disable"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN() = %q; missing %q", dsn, want)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{" , ", 0},
		{"a", 1},
		{"a,b,,c", 3},
	}
	for _, tt := range tests {
		if got := SplitList(tt.in); len(got) != tt.want {
			t.Errorf("SplitList(%q) = %q; want %d entries", tt.in, got, tt.want)
		}
	}
}
