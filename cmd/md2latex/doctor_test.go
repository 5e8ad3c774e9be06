package main

// Notes:
// - printDoctorResult: we test the human output for each status with
//   hand-built results, so no tool needs to be installed.
// - runDoctorCmd: we test flag handling and that --json decodes. The status
//   depends on the machine, so we only check it agrees with the exit code.
// - isContainer: we test the MD2LATEX_CONTAINER override with t.Setenv(),
//   which prevents t.Parallel(). Filesystem signals are not tested.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPrintDoctorResult - Human readable output
// ---------------------------------------------------------------------------

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	base := func() *doctorResult {
		return &doctorResult{
			Status: statusReady,
			Engine: "pdflatex",
			Tools: []toolInfo{
				{Name: "pdflatex", Found: true, Path: "/usr/bin/pdflatex", Version: "pdfTeX 3.141592653", Required: true},
				{Name: "biber", Found: true, Path: "/usr/bin/biber"},
			},
			Chrome: chromeInfo{Found: true, Path: "/usr/bin/chromium", Sandbox: true},
			Env:    envInfo{OS: "linux", Arch: "amd64"},
			System: systemInfo{TempWritable: true},
		}
	}

	tests := []struct {
		name    string
		modify  func(r *doctorResult)
		want    []string
		notWant []string
	}{
		{
			name:   "ready",
			modify: func(*doctorResult) {},
			want: []string{
				"md2latex doctor",
				"LaTeX (pdflatex)",
				"[OK] pdflatex: /usr/bin/pdflatex (pdfTeX 3.141592653)",
				"[OK] biber: /usr/bin/biber\n",
				"[OK] Found at /usr/bin/chromium",
				"[OK] Sandbox: enabled",
				"[OK] Platform: linux/amd64",
				"[OK] Temp directory: writable",
				"Status: Ready to convert",
			},
			notWant: []string{"Warnings:", "Errors:", "Container:", "CI:"},
		},
		{
			name: "warnings",
			modify: func(r *doctorResult) {
				r.Status = statusWarnings
				r.Tools[1] = toolInfo{Name: "biber"}
				r.Chrome = chromeInfo{}
				r.Warnings = []string{"biber not found: bibliographies unavailable"}
			},
			want: []string{
				"[WARN] biber: not found",
				"[WARN] Not found",
				"Warnings:",
				"[WARN] biber not found: bibliographies unavailable",
				"Status: Ready with warnings",
			},
			notWant: []string{"Errors:"},
		},
		{
			name: "errors",
			modify: func(r *doctorResult) {
				r.Status = statusErrors
				r.Tools[0] = toolInfo{Name: "pdflatex", Required: true}
				r.System.TempWritable = false
				r.Errors = []string{"pdflatex not found: PDF output unavailable"}
			},
			want: []string{
				"[ERROR] pdflatex: not found",
				"[ERROR] Temp directory: not writable",
				"Errors:",
				"Status: Not ready (see errors above)",
			},
		},
		{
			name: "container and ci",
			modify: func(r *doctorResult) {
				r.Env.Container = true
				r.Env.ContainerHint = "/.dockerenv"
				r.Env.CI = true
				r.Chrome.Sandbox = false
			},
			want: []string{
				"[OK] Container: detected (/.dockerenv)",
				"[OK] CI: detected",
				"Sandbox: disabled (ROD_NO_SANDBOX=1)",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := base()
			tt.modify(r)
			var buf bytes.Buffer
			printDoctorResult(&buf, r)

			got := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("output should contain %q, got:\n%s", want, got)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(got, notWant) {
					t.Errorf("output should not contain %q, got:\n%s", notWant, got)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Flags and JSON output
// ---------------------------------------------------------------------------

func TestRunDoctorCmd(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		env, stdout, _ := testEnv()

		code := runDoctorCmd([]string{"--json", "-e", "xelatex"}, env)

		var result doctorResult
		if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
		}
		if result.Engine != "xelatex" {
			t.Errorf("Engine = %q, want xelatex", result.Engine)
		}
		if len(result.Tools) == 0 || result.Tools[0].Name != "xelatex" || !result.Tools[0].Required {
			t.Errorf("Tools = %+v, want xelatex first and required", result.Tools)
		}
		wantCode := ExitSuccess
		if result.Status == statusErrors {
			wantCode = ExitGeneral
		}
		if code != wantCode {
			t.Errorf("exit code = %d, want %d for status %q", code, wantCode, result.Status)
		}
	})

	t.Run("unknown engine", func(t *testing.T) {
		t.Parallel()
		env, stdout, stderr := testEnv()

		if code := runDoctorCmd([]string{"--engine", "tectonic"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if stdout.Len() != 0 {
			t.Errorf("no report expected, got: %s", stdout.String())
		}
		if !strings.Contains(stderr.String(), "tectonic") {
			t.Errorf("stderr should name the engine, got: %s", stderr.String())
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()
		env, _, _ := testEnv()

		if code := runDoctorCmd([]string{"--bogus"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()
		env, _, _ := testEnv()

		if code := runDoctorCmd([]string{"--help"}, env); code != ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, ExitSuccess)
		}
	})
}

// ---------------------------------------------------------------------------
// TestToolPurpose
// ---------------------------------------------------------------------------

func TestToolPurpose(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"biber": "bibliographies",
		"dot":   "graphviz",
		"other": "some documents",
	}
	for name, want := range tests {
		if got := toolPurpose(name); !strings.Contains(got, want) {
			t.Errorf("toolPurpose(%q) = %q, want it to mention %q", name, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestIsContainer - Explicit override
// ---------------------------------------------------------------------------

func TestIsContainer(t *testing.T) {
	t.Setenv("MD2LATEX_CONTAINER", "1")

	got, hint := isContainer()
	if !got {
		t.Error("isContainer() = false, want true")
	}
	if hint != "MD2LATEX_CONTAINER=1" {
		t.Errorf("hint = %q, want MD2LATEX_CONTAINER=1", hint)
	}
}
