package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes content to dir/name and returns the path.
func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Document.Backend != "article" {
		t.Errorf("Document.Backend = %q, want article", cfg.Document.Backend)
	}
	if cfg.Assets.Style != "default" || cfg.Assets.TemplateSet != "default" {
		t.Errorf("Assets = %+v, want default style and template set", cfg.Assets)
	}
	if cfg.Render.Engine != "pdflatex" {
		t.Errorf("Render.Engine = %q, want pdflatex", cfg.Render.Engine)
	}
	if cfg.Output.PDF {
		t.Error("Output.PDF = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit is invalid", "12345678901", 10, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("field", tt.value, tt.maxLength)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateFieldLength() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				if !strings.Contains(err.Error(), "field") {
					t.Errorf("error %q should name the field", err)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	long := func(n int) string { return strings.Repeat("x", n) }

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
		field   string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:   "every backend is accepted",
			modify: func(c *Config) { c.Document.Backend = "Beamer" },
		},
		{
			name:    "unknown backend",
			modify:  func(c *Config) { c.Document.Backend = "book" },
			wantErr: ErrInvalidField,
			field:   "document.backend",
		},
		{
			name:   "font size 12pt",
			modify: func(c *Config) { c.Document.FontSize = "12pt" },
		},
		{
			name:    "font size without unit",
			modify:  func(c *Config) { c.Document.FontSize = "12" },
			wantErr: ErrInvalidField,
			field:   "document.fontSize",
		},
		{
			name:    "font size too large",
			modify:  func(c *Config) { c.Document.FontSize = "21pt" },
			wantErr: ErrInvalidField,
			field:   "document.fontSize",
		},
		{
			name:    "bad orientation",
			modify:  func(c *Config) { c.Document.Orientation = "sideways" },
			wantErr: ErrInvalidField,
			field:   "document.orientation",
		},
		{
			name:    "title too long",
			modify:  func(c *Config) { c.Document.Title = long(MaxTitleLength + 1) },
			wantErr: ErrFieldTooLong,
			field:   "document.title",
		},
		{
			name:    "class option too long",
			modify:  func(c *Config) { c.Document.ClassOptions = []string{"a4paper", long(MaxOptionLength + 1)} },
			wantErr: ErrFieldTooLong,
			field:   "document.classOptions[1]",
		},
		{
			name:    "too many header includes",
			modify:  func(c *Config) { c.Document.HeaderIncludes = make([]string, MaxHeaderIncludes+1) },
			wantErr: ErrInvalidField,
			field:   "document.headerIncludes",
		},
		{
			name:    "disclaimer too long",
			modify:  func(c *Config) { c.Thesis.Disclaimer = long(MaxTextLength + 1) },
			wantErr: ErrFieldTooLong,
			field:   "thesis.disclaimer",
		},
		{
			name:    "too many abstracts",
			modify:  func(c *Config) { c.Thesis.Abstracts = make([]string, MaxAbstracts+1) },
			wantErr: ErrInvalidField,
			field:   "thesis.abstracts",
		},
		{
			name:    "beamer theme too long",
			modify:  func(c *Config) { c.Beamer.Theme = long(MaxOptionLength + 1) },
			wantErr: ErrFieldTooLong,
			field:   "beamer.theme",
		},
		{
			name:    "allowed directory too long",
			modify:  func(c *Config) { c.Resolve.AllowAbsolute = []string{long(MaxPathLength + 1)} },
			wantErr: ErrFieldTooLong,
			field:   "resolve.allowAbsolute[0]",
		},
		{
			name:   "valid timeout",
			modify: func(c *Config) { c.Render.Timeout = "90s" },
		},
		{
			name:    "unparsable timeout",
			modify:  func(c *Config) { c.Render.Timeout = "soon" },
			wantErr: ErrInvalidField,
			field:   "render.timeout",
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Render.Timeout = "-1m" },
			wantErr: ErrInvalidField,
			field:   "render.timeout",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should name %s", err, tt.field)
			}
		})
	}
}

func TestRenderConfig_TimeoutDuration(t *testing.T) {
	t.Parallel()

	got, err := RenderConfig{}.TimeoutDuration()
	if err != nil || got != 0 {
		t.Errorf("empty timeout = %v, %v; want 0, nil", got, err)
	}

	got, err = RenderConfig{Timeout: "2m30s"}.TimeoutDuration()
	if err != nil || got != 150*time.Second {
		t.Errorf("2m30s = %v, %v; want 2m30s, nil", got, err)
	}
}

// ---------------------------------------------------------------------------
// LoadConfig
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config over defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "thesis.yaml", `document:
  backend: thesis
  title: "On Generators"
  author: Jane Doe
  date: auto
  fontSize: 12pt
  figures: false
thesis:
  university: TU Example
  abstracts: [abstract-en.md, abstract-de.md]
beamer:
  theme: metropolis
render:
  timeout: 5m
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Document.Backend != "thesis" {
			t.Errorf("Document.Backend = %q, want thesis", cfg.Document.Backend)
		}
		if cfg.Document.Title != "On Generators" || cfg.Document.Author != "Jane Doe" {
			t.Errorf("Document = %+v", cfg.Document)
		}
		if cfg.Document.Figures == nil || *cfg.Document.Figures {
			t.Errorf("Document.Figures = %v, want explicit false", cfg.Document.Figures)
		}
		if cfg.Document.TightList != nil {
			t.Errorf("Document.TightList = %v, want nil", *cfg.Document.TightList)
		}
		if cfg.Thesis.University != "TU Example" {
			t.Errorf("Thesis.University = %q", cfg.Thesis.University)
		}
		if cfg.Beamer.Theme != "metropolis" {
			t.Errorf("Beamer.Theme = %q", cfg.Beamer.Theme)
		}
		// Unset sections keep their defaults.
		if cfg.Assets.Style != "default" || cfg.Render.Engine != "pdflatex" {
			t.Errorf("defaults lost: assets %+v, render %+v", cfg.Assets, cfg.Render)
		}
	})

	t.Run("relative paths are relative to the config file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeConfig(t, dir, "paths.yaml", `document:
  bibliography: refs.bib
thesis:
  logoUniversity: /abs/logo.pdf
  abstracts: [abstract.md]
assets:
  style: styles/custom.tex
  template: template.tex
resolve:
  allowAbsolute: [shared]
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		checks := []struct{ name, got, want string }{
			{"bibliography", cfg.Document.Bibliography, filepath.Join(dir, "refs.bib")},
			{"absolute logo", cfg.Thesis.LogoUniversity, "/abs/logo.pdf"},
			{"abstract", cfg.Thesis.Abstracts[0], filepath.Join(dir, "abstract.md")},
			{"style path", cfg.Assets.Style, filepath.Join(dir, "styles/custom.tex")},
			{"template", cfg.Assets.Template, filepath.Join(dir, "template.tex")},
			{"allowed dir", cfg.Resolve.AllowAbsolute[0], filepath.Join(dir, "shared")},
			{"unset stays empty", cfg.Thesis.LogoFaculty, ""},
		}
		for _, c := range checks {
			if c.got != c.want {
				t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
			}
		}
	})

	t.Run("style name is not a path", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "style.yaml", "assets:\n  style: minimal\n")
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Assets.Style != "minimal" {
			t.Errorf("Assets.Style = %q, want minimal", cfg.Assets.Style)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "invalid.yaml", "document: [unclosed")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "unknown.yaml", "document:\n  titel: typo\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "bad.yaml", "document:\n  backend: letter\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidField) {
			t.Errorf("error = %v, want ErrInvalidField", err)
		}
	})
}

// Changes the working directory: not parallel.
func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)

	writeConfig(t, dir, "slides.yml", "document:\n  backend: beamer\n")

	cfg, err := LoadConfig("slides")
	if err != nil {
		t.Fatalf("LoadConfig(slides) error = %v", err)
	}
	if cfg.Document.Backend != "beamer" {
		t.Errorf("Document.Backend = %q, want beamer", cfg.Document.Backend)
	}

	_, err = LoadConfig("missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("LoadConfig(missing) error = %v, want *NotFoundError", err)
	}
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
	if len(nf.Tried) != 4 {
		t.Errorf("Tried = %v, want 4 locations", nf.Tried)
	}
	if !strings.Contains(nf.Tried[2], "go-md2latex") {
		t.Errorf("Tried[2] = %q, want the user config directory", nf.Tried[2])
	}
}
