// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/alnah/go-md2latex/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// The browser is only used to convert SVG images to PDF.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForToolMissing returns a hint for an external program not found in PATH.
func ForToolMissing(tool string) string {
	switch tool {
	case "dot":
		return format("install graphviz to render dot diagrams")
	case "latexmk", "pdflatex", "biber":
		return format("install a TeX distribution providing " + tool + " (e.g. TeX Live)")
	default:
		return format("make sure " + tool + " is installed and in PATH")
	}
}

// ForToolLogs returns a hint pointing at the log files of a failed tool run.
func ForToolLogs(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	return format("see " + strings.Join(paths, ", "))
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2latex/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-md2latex") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUnknownName returns a "did you mean" hint when name is close to one of
// the known names, or lists them otherwise.
func ForUnknownName(name string, known []string) string {
	if s := Suggest(name, known); s != "" {
		return format("did you mean " + s + "?")
	}
	sorted := append([]string(nil), known...)
	sort.Strings(sorted)
	return ForStyleNotFound(sorted)
}

// Suggest returns the known name closest to name, or "" when none is close.
func Suggest(name string, known []string) string {
	if name == "" || len(known) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, known)
	// Also match when the known name is the shorter one, e.g. "tocc" vs "toc".
	for _, k := range known {
		if fuzzy.MatchFold(k, name) {
			ranks = append(ranks, fuzzy.Rank{Source: name, Target: k, Distance: len(name) - len(k)})
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
