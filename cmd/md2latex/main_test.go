package main

// Notes:
// - runMain: we test exit codes and output for every command. Conversions
//   write .tex files only; PDF output needs a LaTeX distribution and is not
//   exercised here.
// - poolAdapter: we test Acquire/Release/Size and panic on wrong type.
// - isCommand, looksLikeMarkdown: we test command and file detection.
// - resolveTimeoutWithEnv: we test duration parsing, validation, and priority.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	md2latex "github.com/alnah/go-md2latex"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

// testEnv returns an Environment writing to buffers, with a fixed clock.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:    func() time.Time { return time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

// writeFile writes content to dir/name, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// readFile returns the content of path, failing the test if it is missing.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) // #nosec G304 -- test path
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// wrongTypeConverter is a CLIConverter that is NOT *md2latex.Converter.
type wrongTypeConverter struct{}

func (w *wrongTypeConverter) Convert(_ context.Context, _ md2latex.Input) (*md2latex.ConvertResult, error) {
	return &md2latex.ConvertResult{LaTeX: []byte(`\documentclass{article}`)}, nil
}

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"md2latex"}, ExitUsage, "", "Usage: md2latex"},
		{"version", []string{"md2latex", "version"}, ExitSuccess, "md2latex dev", ""},
		{"version flag", []string{"md2latex", "--version"}, ExitSuccess, "md2latex dev", ""},
		{"help", []string{"md2latex", "help"}, ExitSuccess, "Commands:", ""},
		{"help flag", []string{"md2latex", "-h"}, ExitSuccess, "Commands:", ""},
		{"help convert", []string{"md2latex", "help", "convert"}, ExitSuccess, "--backend", ""},
		{"help doctor", []string{"md2latex", "help", "doctor"}, ExitSuccess, "md2latex doctor", ""},
		{"help config", []string{"md2latex", "help", "config"}, ExitSuccess, "md2latex config", ""},
		{"help unknown", []string{"md2latex", "help", "bogus"}, ExitUsage, "", "Unknown command: bogus"},
		{"unknown command", []string{"md2latex", "bogus"}, ExitUsage, "", "unknown command: bogus"},
		{"completion usage", []string{"md2latex", "completion"}, ExitSuccess, "Supported shells", ""},
		{"completion bash", []string{"md2latex", "completion", "bash"}, ExitSuccess, "complete -F", ""},
		{"completion unsupported", []string{"md2latex", "completion", "tcsh"}, ExitUsage, "", "unsupported shell"},
		{"convert without input", []string{"md2latex", "convert"}, ExitIO, "", "no input specified"},
		{"convert unknown flag", []string{"md2latex", "convert", "--bogus"}, ExitUsage, "", "unknown flag"},
		{"convert negative workers", []string{"md2latex", "convert", "-w", "-1", "doc.md"}, ExitUsage, "", "invalid worker count"},
		{"convert too many workers", []string{"md2latex", "convert", "-w", "99", "doc.md"}, ExitUsage, "", "maximum is 8"},
		{"convert bad timeout", []string{"md2latex", "convert", "-t", "soon", "doc.md"}, ExitUsage, "", "invalid timeout"},
		{"convert missing config", []string{"md2latex", "convert", "-c", "/nonexistent/md2latex.yaml", "doc.md"}, ExitUsage, "", "config file not found"},
		{"markdown shorthand missing file", []string{"md2latex", "/nonexistent/doc.md"}, ExitIO, "", "no such file"},
		{"config unknown flag", []string{"md2latex", "config", "--bogus"}, ExitUsage, "", "invalid usage"},
		{"doctor unknown engine", []string{"md2latex", "doctor", "--engine", "tectonic"}, ExitUsage, "", "unknown"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			got := runMain(tt.args, env)

			if got != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d (stderr: %s)", tt.args, got, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout should contain %q, got:\n%s", tt.wantStdout, stdout.String())
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr should contain %q, got:\n%s", tt.wantStderr, stderr.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Convert - End-to-end conversion to .tex
// ---------------------------------------------------------------------------

func TestRunMain_Convert(t *testing.T) {
	t.Parallel()

	t.Run("single file next to input", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		input := writeFile(t, dir, "doc.md", "# Hello\n\nWorld.\n")

		env, stdout, stderr := testEnv()
		code := runMain([]string{"md2latex", "convert", input}, env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, stderr.String())
		}

		out := filepath.Join(dir, "doc.tex")
		tex := readFile(t, out)
		if !strings.Contains(tex, `\section{Hello}`) {
			t.Errorf("output should contain the section, got:\n%s", tex)
		}
		if !strings.Contains(stdout.String(), "Created "+out) {
			t.Errorf("stdout should report %s, got: %s", out, stdout.String())
		}
	})

	t.Run("markdown shorthand", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		input := writeFile(t, dir, "notes.md", "# Notes\n")

		env, _, stderr := testEnv()
		if code := runMain([]string{"md2latex", input, "-q"}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, stderr.String())
		}
		if _, err := os.Stat(filepath.Join(dir, "notes.tex")); err != nil {
			t.Errorf("notes.tex not written: %v", err)
		}
	})

	t.Run("flags override front matter", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		input := writeFile(t, dir, "doc.md", "---\ntitle: Front Matter\n---\n# Intro\n")

		env, _, stderr := testEnv()
		code := runMain([]string{"md2latex", "convert", input, "-q",
			"--backend", "report", "--title", "From Flag", "--paper", "letter"}, env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, stderr.String())
		}

		tex := readFile(t, filepath.Join(dir, "doc.tex"))
		for _, want := range []string{`{scrreprt}`, `\title{From Flag}`, `letterpaper`, `\chapter{Intro}`} {
			if !strings.Contains(tex, want) {
				t.Errorf("output should contain %q", want)
			}
		}
		if strings.Contains(tex, "Front Matter") {
			t.Error("front matter title should be overridden")
		}
	})

	t.Run("output file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		input := writeFile(t, dir, "doc.md", "# Hello\n")
		out := filepath.Join(dir, "build", "paper.tex")

		env, _, stderr := testEnv()
		if code := runMain([]string{"md2latex", "convert", input, "-o", out, "-q"}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, stderr.String())
		}
		if _, err := os.Stat(out); err != nil {
			t.Errorf("%s not written: %v", out, err)
		}
	})

	t.Run("directory keeps structure", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		writeFile(t, src, "a.md", "# A\n")
		writeFile(t, src, "sub/b.md", "# B\n")
		outDir := filepath.Join(dir, "out")

		env, stdout, stderr := testEnv()
		if code := runMain([]string{"md2latex", "convert", src, "-o", outDir, "-w", "2"}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, stderr.String())
		}
		for _, p := range []string{"a.tex", filepath.Join("sub", "b.tex")} {
			if _, err := os.Stat(filepath.Join(outDir, p)); err != nil {
				t.Errorf("%s not written: %v", p, err)
			}
		}
		if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
			t.Errorf("stdout should summarize, got: %s", stdout.String())
		}
	})

	t.Run("document errors are reported", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		input := writeFile(t, dir, "deep.md", "# Top\n\n#### Too deep\n")

		env, _, stderr := testEnv()
		code := runMain([]string{"md2latex", "convert", input, "-q"}, env)
		if code != ExitGeneral {
			t.Fatalf("exit code = %d, want %d", code, ExitGeneral)
		}
		if !strings.Contains(stderr.String(), "deep.md:3:") {
			t.Errorf("stderr should locate the diagnostic, got: %s", stderr.String())
		}
		if !strings.Contains(stderr.String(), "documents with errors: 1 of 1") {
			t.Errorf("stderr should summarize, got: %s", stderr.String())
		}
		// The document is still generated.
		if _, err := os.Stat(filepath.Join(dir, "deep.tex")); err != nil {
			t.Errorf("deep.tex not written: %v", err)
		}
	})

	t.Run("empty document fails", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		input := writeFile(t, dir, "empty.md", "  \n")

		env, _, stderr := testEnv()
		code := runMain([]string{"md2latex", "convert", input}, env)
		if code != ExitUsage {
			t.Fatalf("exit code = %d, want %d", code, ExitUsage)
		}
		got := stderr.String()
		if !strings.Contains(got, "FAILED "+input) {
			t.Errorf("stderr should report the failure, got: %s", got)
		}
		if strings.Count(got, "markdown content cannot be empty") != 1 {
			t.Errorf("failure should be printed once, got: %s", got)
		}
	})

	t.Run("config file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		input := writeFile(t, dir, "doc.md", "# Hello\n")
		cfgPath := writeFile(t, dir, "md2latex.yaml", "document:\n  backend: report\n  author: Config Author\n")

		env, _, stderr := testEnv()
		if code := runMain([]string{"md2latex", "convert", input, "-c", cfgPath, "-q"}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, stderr.String())
		}
		tex := readFile(t, filepath.Join(dir, "doc.tex"))
		if !strings.Contains(tex, `\author{Config Author}`) {
			t.Error("output should use the config author")
		}
		if !strings.Contains(tex, `{scrreprt}`) {
			t.Error("output should use the config backend")
		}
	})
}

// ---------------------------------------------------------------------------
// TestPoolAdapter - Pool adapter
// ---------------------------------------------------------------------------

func TestPoolAdapter_Release_WrongType(t *testing.T) {
	t.Parallel()

	pool := md2latex.NewConverterPool(1)
	defer pool.Close()

	adapter := &poolAdapter{pool: pool}

	// Release with wrong type should panic (programmer error)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for wrong type, got none")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected string panic, got %T", r)
		}
		if !strings.Contains(msg, "unexpected type") {
			t.Errorf("panic message should contain 'unexpected type', got %q", msg)
		}
	}()

	adapter.Release(&wrongTypeConverter{})
}

func TestPoolAdapter_Size(t *testing.T) {
	t.Parallel()

	pool := md2latex.NewConverterPool(3)
	defer pool.Close()

	adapter := &poolAdapter{pool: pool}

	if adapter.Size() != 3 {
		t.Errorf("Size() = %d, want 3", adapter.Size())
	}
}

func TestPoolAdapter_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := md2latex.NewConverterPool(1)
	defer pool.Close()

	adapter := &poolAdapter{pool: pool}

	conv, err := adapter.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if conv == nil {
		t.Fatal("Acquire() returned nil")
	}

	adapter.Release(conv)
}

func TestPoolAdapter_AcquireError(t *testing.T) {
	t.Parallel()

	pool := md2latex.NewConverterPool(1, md2latex.WithStyle("nonexistent"))
	defer pool.Close()

	adapter := &poolAdapter{pool: pool}

	conv, err := adapter.Acquire()
	if err == nil {
		t.Fatal("Acquire() should fail with an unknown style")
	}
	// A nil *Converter must not become a non-nil interface.
	if conv != nil {
		t.Errorf("Acquire() = %v, want nil", conv)
	}
}

// ---------------------------------------------------------------------------
// TestIsCommand / TestLooksLikeMarkdown - Argument detection
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"convert", true},
		{"doctor", true},
		{"config", true},
		{"completion", true},
		{"version", true},
		{"help", true},
		{"Convert", false},
		{"doc.md", false},
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := isCommand(tt.input); got != tt.want {
				t.Errorf("isCommand(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLooksLikeMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"doc.md", true},
		{"doc.markdown", true},
		{"doc.mkd", true},
		{"/path/to/doc.md", true},
		{"DOC.MD", true},
		{"doc.txt", false},
		{"doc", false},
		{"convert", false},
		{"-o", false},
		{"--output=doc.md", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := looksLikeMarkdown(tt.input); got != tt.want {
				t.Errorf("looksLikeMarkdown(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveTimeoutWithEnv - Timeout priority and validation
// ---------------------------------------------------------------------------

func TestResolveTimeoutWithEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		flagValue   string
		envValue    time.Duration
		configValue string
		want        time.Duration
		wantErr     bool
		errSubstr   string
	}{
		{name: "nothing set", want: 0},
		{name: "flag only", flagValue: "30s", want: 30 * time.Second},
		{name: "env only", envValue: time.Minute, want: time.Minute},
		{name: "config only", configValue: "2m", want: 2 * time.Minute},
		{name: "flag beats env and config", flagValue: "10s", envValue: time.Minute, configValue: "2m", want: 10 * time.Second},
		{name: "env beats config", envValue: time.Minute, configValue: "2m", want: time.Minute},
		{name: "complex duration", flagValue: "1h30m45s", want: time.Hour + 30*time.Minute + 45*time.Second},
		{name: "invalid flag", flagValue: "soon", wantErr: true, errSubstr: "invalid timeout"},
		{name: "negative flag", flagValue: "-5s", wantErr: true, errSubstr: "must be positive"},
		{name: "zero flag overrides valid env", flagValue: "0s", envValue: time.Minute, wantErr: true, errSubstr: "must be positive"},
		{name: "invalid config", configValue: "later", wantErr: true, errSubstr: "invalid timeout"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveTimeoutWithEnv(tt.flagValue, tt.envValue, tt.configValue)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("error should contain %q, got: %v", tt.errSubstr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveTimeoutWithEnv(%q, %v, %q) = %v, want %v",
					tt.flagValue, tt.envValue, tt.configValue, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestVersion - Version variable
// ---------------------------------------------------------------------------

func TestVersion(t *testing.T) {
	t.Parallel()

	if Version == "" {
		t.Error("Version should not be empty")
	}
}
