package main

// Notes:
// - discoverFiles: we test single files, directory walks, hidden directories,
//   extension filtering and missing inputs.
// - resolveOutputPath: we test every output location rule.
// - validateWorkers: we test the bounds.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Markdown file discovery
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	t.Run("single file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		input := writeFile(t, dir, "doc.md", "# Doc")

		files, err := discoverFiles(input, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(files) != 1 {
			t.Fatalf("got %d files, want 1", len(files))
		}
		if want := filepath.Join(dir, "doc.tex"); files[0].OutputPath != want {
			t.Errorf("OutputPath = %q, want %q", files[0].OutputPath, want)
		}
	})

	t.Run("single file with wrong extension", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		input := writeFile(t, dir, "doc.txt", "text")

		_, err := discoverFiles(input, "")
		if !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("error = %v, want ErrInvalidExtension", err)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(t.TempDir(), "missing.md"), "")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "a.md", "# A")
		writeFile(t, dir, "b.MARKDOWN", "# B")
		writeFile(t, dir, "notes.txt", "skip")
		writeFile(t, dir, "sub/c.mkd", "# C")
		writeFile(t, dir, ".git/d.md", "# hidden")
		out := filepath.Join(dir, "out")

		files, err := discoverFiles(dir, out)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := map[string]string{}
		for _, f := range files {
			rel, _ := filepath.Rel(dir, f.InputPath)
			got[rel] = f.OutputPath
		}
		want := map[string]string{
			"a.md":                        filepath.Join(out, "a.tex"),
			"b.MARKDOWN":                  filepath.Join(out, "b.tex"),
			filepath.Join("sub", "c.mkd"): filepath.Join(out, "sub", "c.tex"),
		}
		if len(got) != len(want) {
			t.Fatalf("got files %v, want %v", got, want)
		}
		for in, wantOut := range want {
			if got[in] != wantOut {
				t.Errorf("output of %s = %q, want %q", in, got[in], wantOut)
			}
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()

		files, err := discoverFiles(t.TempDir(), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(files) != 0 {
			t.Errorf("got %d files, want 0", len(files))
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output location rules
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		inputPath    string
		outputDir    string
		baseInputDir string
		want         string
	}{
		{"next to input", "docs/a.md", "", "", filepath.Join("docs", "a.tex")},
		{"explicit tex file", "docs/a.md", "build/paper.tex", "", "build/paper.tex"},
		{"explicit tex file, upper case", "docs/a.md", "build/PAPER.TEX", "", "build/PAPER.TEX"},
		{"output directory", "docs/a.md", "build", "", filepath.Join("build", "a.tex")},
		{"keeps subdirectory", "docs/sub/a.md", "build", "docs", filepath.Join("build", "sub", "a.tex")},
		{"top level of input dir", "docs/a.markdown", "build", "docs", filepath.Join("build", "a.tex")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveOutputPath(tt.inputPath, tt.outputDir, tt.baseInputDir)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveOutputPath(%q, %q, %q) = %q, want %q",
					tt.inputPath, tt.outputDir, tt.baseInputDir, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker count bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{1, false},
		{8, false},
		{9, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if tt.wantErr != (err != nil) {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error should wrap ErrInvalidWorkerCount", tt.n)
		}
	}
}
