package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-md2latex/internal/config"
)

// envPrefix is the prefix of every environment variable read by the CLI.
const envPrefix = "MD2LATEX_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // MD2LATEX_CONFIG: config file name or path
	Backend    string        // MD2LATEX_BACKEND: document backend
	Style      string        // MD2LATEX_STYLE: preamble style name or path
	Timeout    time.Duration // MD2LATEX_TIMEOUT: external tool timeout
	Engine     string        // MD2LATEX_ENGINE: LaTeX engine

	// Tier 2 - I/O and identity
	OutputDir string // MD2LATEX_OUTPUT_DIR: default output directory
	Author    string // MD2LATEX_AUTHOR: document author
	Date      string // MD2LATEX_DATE: document date
	Lang      string // MD2LATEX_LANG: document language

	// Tier 3 - Resolution and workers
	ProjectRoot string // MD2LATEX_PROJECT_ROOT: include project root
	CacheDir    string // MD2LATEX_CACHE_DIR: remote include cache
	Workers     int    // MD2LATEX_WORKERS: parallel workers
}

// knownEnvVars lists valid MD2LATEX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"MD2LATEX_CONFIG":  true,
	"MD2LATEX_BACKEND": true,
	"MD2LATEX_STYLE":   true,
	"MD2LATEX_TIMEOUT": true,
	"MD2LATEX_ENGINE":  true,
	// Tier 2 - I/O and identity
	"MD2LATEX_OUTPUT_DIR": true,
	"MD2LATEX_AUTHOR":     true,
	"MD2LATEX_DATE":       true,
	"MD2LATEX_LANG":       true,
	// Tier 3 - Resolution and workers
	"MD2LATEX_PROJECT_ROOT": true,
	"MD2LATEX_CACHE_DIR":    true,
	"MD2LATEX_WORKERS":      true,
	// Read by doctor only
	"MD2LATEX_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("MD2LATEX_CONFIG"),
		Backend:    os.Getenv("MD2LATEX_BACKEND"),
		Style:      os.Getenv("MD2LATEX_STYLE"),
		Engine:     os.Getenv("MD2LATEX_ENGINE"),
		// Tier 2
		OutputDir: os.Getenv("MD2LATEX_OUTPUT_DIR"),
		Author:    os.Getenv("MD2LATEX_AUTHOR"),
		Date:      os.Getenv("MD2LATEX_DATE"),
		Lang:      os.Getenv("MD2LATEX_LANG"),
		// Tier 3
		ProjectRoot: os.Getenv("MD2LATEX_PROJECT_ROOT"),
		CacheDir:    os.Getenv("MD2LATEX_CACHE_DIR"),
	}

	if timeout := os.Getenv("MD2LATEX_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MD2LATEX_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2LATEX_* variables,
// in name order.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies environment variable values to config. A set
// variable replaces the config value, so the priority is:
// CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
// The timeout is handled separately in resolveTimeoutWithEnv.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	// Tier 1
	set(&cfg.Document.Backend, env.Backend)
	set(&cfg.Assets.Style, env.Style)
	set(&cfg.Render.Engine, env.Engine)

	// Tier 2
	set(&cfg.Output.DefaultDir, env.OutputDir)
	set(&cfg.Document.Author, env.Author)
	set(&cfg.Document.Date, env.Date)
	set(&cfg.Document.Lang, env.Lang)

	// Tier 3
	set(&cfg.Resolve.ProjectRoot, env.ProjectRoot)
	set(&cfg.Resolve.CacheDir, env.CacheDir)
}
