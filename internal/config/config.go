package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"tabscope/internal/util"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Config struct {
	FilePath    string
	UseStdin    bool
	Follow      bool
	ConnString  string
	Query       string
	RowLimit    int
	MaxLine     int // per-line scanner buffer (bytes)
	Theme       Theme
	ShowVersion bool

	ExportFormat string
	ExportOut    string

	// Internal
	IsPipedStdin bool
}

func Load() (*Config, error) {
	fi, _ := os.Stdin.Stat()
	piped := (fi.Mode() & os.ModeCharDevice) == 0
	return parse(os.Args[1:], piped)
}

func parse(args []string, piped bool) (*Config, error) {
	cfg := &Config{IsPipedStdin: piped}

	fs := flag.NewFlagSet("tabscope", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.FilePath, "file", "", "path to a file with psql output")
	fs.BoolVar(&cfg.Follow, "follow", false, "keep reading as the file grows")
	fs.BoolVar(&cfg.UseStdin, "stdin", false, "read from stdin (default: auto if piped)")
	fs.StringVar(&cfg.ConnString, "connect", getenvDefault("TABSCOPE_DSN", ""), "PostgreSQL connection string (or TABSCOPE_DSN)")
	fs.StringVar(&cfg.Query, "query", "", "initial query to run against --connect")
	fs.IntVar(&cfg.RowLimit, "limit", getenvDefaultInt("TABSCOPE_ROW_LIMIT", 1000), "row limit when browsing tables via --connect")
	fs.IntVar(&cfg.MaxLine, "max-line", 1024*1024, "maximum input line length in bytes")
	theme := string(ThemeDark)
	fs.StringVar(&theme, "theme", string(ThemeDark), "theme: dark|light")
	fs.StringVar(&cfg.ExportFormat, "export", "", "quick-export format for the e key: csv|json")
	fs.StringVar(&cfg.ExportOut, "out", "", "output path for quick export")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Theme = Theme(theme)

	if cfg.ExportFormat != "" {
		if cfg.ExportOut == "" {
			return nil, errors.New("--export requires --out path")
		}
		if cfg.ExportFormat != "csv" && cfg.ExportFormat != "json" {
			return nil, fmt.Errorf("unknown export format %q", cfg.ExportFormat)
		}
	}

	if cfg.ConnString != "" && (cfg.FilePath != "" || cfg.UseStdin) {
		return nil, errors.New("--connect cannot be combined with --file or --stdin")
	}

	// Input source defaults: piped stdin wins when nothing else is asked for.
	if cfg.ConnString == "" {
		if cfg.UseStdin || (cfg.IsPipedStdin && cfg.FilePath == "") {
			cfg.UseStdin = true
		}
	}

	if cfg.MaxLine < 64*1024 {
		cfg.MaxLine = 64 * 1024
	}
	if cfg.RowLimit <= 0 {
		cfg.RowLimit = 1000
	}

	return cfg, nil
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func (c *Config) String() string {
	return fmt.Sprintf("file=%s stdin=%v follow=%v connect=%s theme=%s",
		c.FilePath, c.UseStdin, c.Follow, util.RedactDSN(c.ConnString), c.Theme)
}
