package render

// Notes:
// - Tool invocations are tested through a fake Runner that records calls.
// - ExecRunner is exercised with a POSIX shell and skipped where none is
//   available; graphviz, LaTeX and the browser are never started.
// - svgConverter needs Chrome and is only covered for its no-browser paths.

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// fakes
// ---------------------------------------------------------------------------

type call struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	// fail makes the call to the named tool return this error.
	fail     map[string]error
	stdout   string
	stderr   string
	blocking bool
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, call{dir: dir, name: name, args: args})
	if f.blocking {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	if err := f.fail[name]; err != nil {
		return []byte(f.stdout), []byte(f.stderr), err
	}
	return nil, nil, nil
}

func (f *fakeRunner) names() []string {
	var out []string
	for _, c := range f.calls {
		out = append(out, c.name)
	}
	return out
}

// ---------------------------------------------------------------------------
// TestGraphviz
// ---------------------------------------------------------------------------

func TestGraphviz(t *testing.T) {
	t.Parallel()

	f := &fakeRunner{}
	r := New(Options{Runner: f})

	got, err := r.Graphviz(context.Background(), "out/graphviz_0.dot")
	if err != nil {
		t.Fatalf("Graphviz() error = %v", err)
	}
	if got != "out/graphviz_0.dot.pdf" {
		t.Errorf("Graphviz() = %q, want %q", got, "out/graphviz_0.dot.pdf")
	}
	want := []call{{name: "dot", args: []string{"-Tpdf", "-O", "out/graphviz_0.dot"}}}
	if !reflect.DeepEqual(f.calls, want) {
		t.Errorf("calls = %+v, want %+v", f.calls, want)
	}
}

// ---------------------------------------------------------------------------
// TestPDF
// ---------------------------------------------------------------------------

func TestPDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		engine       string
		bibliography bool
		wantNames    []string
	}{
		{"pdflatex passes", "", false, []string{"pdflatex", "pdflatex", "pdflatex"}},
		{"biber between passes", "", true, []string{"pdflatex", "biber", "pdflatex", "pdflatex"}},
		{"xelatex", EngineXeLaTeX, false, []string{"xelatex", "xelatex", "xelatex"}},
		{"latexmk runs once", EngineLatexmk, true, []string{"latexmk"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := &fakeRunner{}
			r := New(Options{Runner: f, Engine: tt.engine})

			got, err := r.PDF(context.Background(), filepath.Join("build", "doc.tex"), tt.bibliography)
			if err != nil {
				t.Fatalf("PDF() error = %v", err)
			}
			if want := filepath.Join("build", "doc.pdf"); got != want {
				t.Errorf("PDF() = %q, want %q", got, want)
			}
			if !reflect.DeepEqual(f.names(), tt.wantNames) {
				t.Errorf("tools = %v, want %v", f.names(), tt.wantNames)
			}
			for _, c := range f.calls {
				if c.dir != "build" {
					t.Errorf("%s ran in %q, want build", c.name, c.dir)
				}
			}
		})
	}
}

func TestPDF_BiberArgument(t *testing.T) {
	t.Parallel()

	f := &fakeRunner{}
	r := New(Options{Runner: f})
	if _, err := r.PDF(context.Background(), "thesis.tex", true); err != nil {
		t.Fatalf("PDF() error = %v", err)
	}
	if got := f.calls[1]; got.name != "biber" || !reflect.DeepEqual(got.args, []string{"thesis"}) {
		t.Errorf("second call = %+v, want biber thesis", got)
	}
}

func TestPDF_UnknownEngine(t *testing.T) {
	t.Parallel()

	f := &fakeRunner{}
	r := New(Options{Runner: f, Engine: "pdftex"})
	_, err := r.PDF(context.Background(), "doc.tex", false)
	if !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("error = %v, want ErrUnknownEngine", err)
	}
	if len(f.calls) != 0 {
		t.Errorf("ran %v for an unknown engine", f.names())
	}
}

func TestPDF_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	f := &fakeRunner{fail: map[string]error{"biber": errors.New("exit status 2")}}
	r := New(Options{Runner: f, LogDir: t.TempDir()})
	_, err := r.PDF(context.Background(), "doc.tex", true)
	if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("error = %v, want ErrToolFailed", err)
	}
	if !reflect.DeepEqual(f.names(), []string{"pdflatex", "biber"}) {
		t.Errorf("tools = %v, want pdflatex then biber", f.names())
	}
}

// ---------------------------------------------------------------------------
// TestRun - failure classification
// ---------------------------------------------------------------------------

func TestRun_FailureWritesLogs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f := &fakeRunner{
		fail:   map[string]error{"dot": errors.New("exit status 1")},
		stdout: "partial output",
		stderr: "syntax error in line 1",
	}
	r := New(Options{Runner: f, LogDir: dir})

	_, err := r.Graphviz(context.Background(), "a.dot")

	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *ToolError", err)
	}
	if !errors.Is(err, ErrToolFailed) {
		t.Error("error does not match ErrToolFailed")
	}
	if te.Tool != "dot" || te.ExitCode != -1 {
		t.Errorf("ToolError = %+v", te)
	}
	wantLogs := []string{filepath.Join(dir, "dot_stdout.log"), filepath.Join(dir, "dot_stderr.log")}
	if !reflect.DeepEqual(te.Logs, wantLogs) {
		t.Errorf("Logs = %v, want %v", te.Logs, wantLogs)
	}
	stderr, err2 := os.ReadFile(wantLogs[1])
	if err2 != nil || string(stderr) != "syntax error in line 1" {
		t.Errorf("stderr log = %q, %v", stderr, err2)
	}
	if !strings.Contains(err.Error(), "hint: see ") {
		t.Errorf("error %q lacks the log hint", err)
	}
}

func TestRun_MissingTool(t *testing.T) {
	t.Parallel()

	f := &fakeRunner{fail: map[string]error{"dot": &exec.Error{Name: "dot", Err: exec.ErrNotFound}}}
	r := New(Options{Runner: f})

	_, err := r.Graphviz(context.Background(), "a.dot")
	if !errors.Is(err, ErrToolMissing) {
		t.Fatalf("error = %v, want ErrToolMissing", err)
	}
	if !strings.Contains(err.Error(), "install graphviz") {
		t.Errorf("error %q lacks the install hint", err)
	}
}

func TestRun_Timeout(t *testing.T) {
	t.Parallel()

	f := &fakeRunner{blocking: true}
	r := New(Options{Runner: f, Timeout: 10 * time.Millisecond})

	_, err := r.Graphviz(context.Background(), "a.dot")
	if !errors.Is(err, ErrToolTimeout) {
		t.Fatalf("error = %v, want ErrToolTimeout", err)
	}
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakeRunner{blocking: true}
	r := New(Options{Runner: f})

	_, err := r.Graphviz(ctx, "a.dot")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestExecRunner
// ---------------------------------------------------------------------------

func TestExecRunner(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found")
	}

	dir := t.TempDir()
	stdout, stderr, err := ExecRunner{}.Run(context.Background(), dir, sh, "-c", "pwd; echo oops >&2; exit 3")
	if exitCode(err) != 3 {
		t.Errorf("exit code = %d (%v), want 3", exitCode(err), err)
	}
	wantDir, _ := filepath.EvalSymlinks(dir)
	gotDir, _ := filepath.EvalSymlinks(strings.TrimSpace(string(stdout)))
	if gotDir != wantDir {
		t.Errorf("ran in %q, want %q", gotDir, wantDir)
	}
	if string(stderr) != "oops\n" {
		t.Errorf("stderr = %q, want %q", stderr, "oops\n")
	}
}

func TestExecRunner_NotFound(t *testing.T) {
	t.Parallel()

	_, _, err := ExecRunner{}.Run(context.Background(), "", "md2latex-no-such-tool")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("error = %v, want exec.ErrNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// TestEngines
// ---------------------------------------------------------------------------

func TestValidateEngine(t *testing.T) {
	t.Parallel()

	for _, name := range Engines() {
		if err := ValidateEngine(name); err != nil {
			t.Errorf("ValidateEngine(%q) = %v", name, err)
		}
	}
	err := ValidateEngine("lualtex")
	if !errors.Is(err, ErrUnknownEngine) || !strings.Contains(err.Error(), "did you mean lualatex?") {
		t.Errorf("ValidateEngine(lualtex) = %v, want a suggestion", err)
	}
}

func TestCheckTools(t *testing.T) {
	t.Parallel()

	tests := []struct {
		engine string
		want   []string
	}{
		{EnginePDFLaTeX, []string{"pdflatex", "biber", "dot"}},
		{EngineLatexmk, []string{"latexmk", "pdflatex", "biber", "dot"}},
	}
	for _, tt := range tests {
		statuses := CheckTools(tt.engine)
		var names []string
		for _, s := range statuses {
			names = append(names, s.Name)
			if (s.Path == "") == (s.Err == nil) {
				t.Errorf("%s: exactly one of Path and Err must be set: %+v", s.Name, s)
			}
			if s.Err != nil && !errors.Is(s.Err, ErrToolMissing) {
				t.Errorf("%s: error = %v, want ErrToolMissing", s.Name, s.Err)
			}
		}
		if !reflect.DeepEqual(names, tt.want) {
			t.Errorf("CheckTools(%s) names = %v, want %v", tt.engine, names, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestSVG
// ---------------------------------------------------------------------------

func TestSVG_CanceledBeforeBrowserStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := New(Options{OutDir: t.TempDir()})
	defer r.Close()

	_, err := r.SVG(ctx, "a.svg")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if r.svg.browser != nil {
		t.Error("browser started for a canceled conversion")
	}
}

func TestClose_WithoutBrowser(t *testing.T) {
	t.Parallel()

	if err := New(Options{}).Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestNextFreePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "svg_0.pdf"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := nextFreePath(dir, "svg_%d.pdf")
	if err != nil {
		t.Fatalf("nextFreePath() error = %v", err)
	}
	if want := filepath.Join(dir, "svg_1.pdf"); got != want {
		t.Errorf("nextFreePath() = %q, want %q", got, want)
	}
}
