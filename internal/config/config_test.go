package config

import (
	"strings"
	"testing"
)

func TestParseSourceDefaults(t *testing.T) {
	t.Setenv("TABSCOPE_DSN", "")

	cfg, err := parse(nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UseStdin || cfg.FilePath != "" || cfg.ConnString != "" {
		t.Fatalf("expected no source selected, got %s", cfg)
	}

	cfg, err = parse(nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.UseStdin {
		t.Fatalf("expected piped stdin to select stdin source")
	}

	cfg, err = parse([]string{"-file", "rows.txt"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UseStdin {
		t.Fatalf("expected explicit --file to win over piped stdin")
	}
	if cfg.FilePath != "rows.txt" {
		t.Fatalf("expected file path kept, got %q", cfg.FilePath)
	}
}

func TestParseConnectConflicts(t *testing.T) {
	t.Setenv("TABSCOPE_DSN", "")
	if _, err := parse([]string{"-connect", "postgres://localhost/db", "-file", "x"}, false); err == nil {
		t.Fatalf("expected conflict error for --connect with --file")
	}
	if _, err := parse([]string{"-connect", "postgres://localhost/db", "-stdin"}, false); err == nil {
		t.Fatalf("expected conflict error for --connect with --stdin")
	}
}

func TestParseExportValidation(t *testing.T) {
	t.Setenv("TABSCOPE_DSN", "")
	cases := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"export without out", []string{"-export", "csv"}, true},
		{"unknown format", []string{"-export", "xml", "-out", "x.xml"}, true},
		{"csv with out", []string{"-export", "csv", "-out", "x.csv"}, false},
		{"json with out", []string{"-export", "json", "-out", "x.json"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse(tc.args, false)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseClampsLimits(t *testing.T) {
	t.Setenv("TABSCOPE_DSN", "")
	cfg, err := parse([]string{"-max-line", "10", "-limit", "-5"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxLine != 64*1024 {
		t.Fatalf("expected max-line floor, got %d", cfg.MaxLine)
	}
	if cfg.RowLimit != 1000 {
		t.Fatalf("expected default row limit, got %d", cfg.RowLimit)
	}
}

func TestStringRedactsPassword(t *testing.T) {
	t.Setenv("TABSCOPE_DSN", "")
	cfg, err := parse([]string{"-connect", "postgres://app:secret@db:5432/prod"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := cfg.String()
	if strings.Contains(s, "secret") {
		t.Fatalf("expected password redacted in %q", s)
	}
	if !strings.Contains(s, "xxxxx") {
		t.Fatalf("expected redaction marker in %q", s)
	}
}
