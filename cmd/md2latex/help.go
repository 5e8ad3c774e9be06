package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2latex <command> [flags] [args]")
	fmt.Fprintln(w, "       md2latex <file.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert markdown files to LaTeX (and PDF)")
	fmt.Fprintln(w, "  doctor      Check the LaTeX toolchain")
	fmt.Fprintln(w, "  config      Print the effective configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2latex help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2latex convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to LaTeX. Each file becomes a .tex file next to")
	fmt.Fprintln(w, "it, or below --output. Problems in a document are reported and skipped.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>         Output .tex file or directory")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>           Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document (override the front matter):")
	fmt.Fprintln(w, "  -b, --backend <s>           article, report, thesis, beamer")
	fmt.Fprintln(w, "      --title <s>             Document title")
	fmt.Fprintln(w, "      --subtitle <s>          Document subtitle")
	fmt.Fprintln(w, "      --author <s>            Document author")
	fmt.Fprintln(w, "      --date <s>              Date: \"auto\", \"auto:FORMAT\", \"today\", or literal")
	fmt.Fprintln(w, "                              Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                              Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "                              Use [text] to escape literals: [Date]: YYYY")
	fmt.Fprintln(w, "      --lang <s>              Language: BCP 47 tag or babel name")
	fmt.Fprintln(w, "      --font-size <s>         Base font size (8pt-20pt)")
	fmt.Fprintln(w, "      --bibliography <path>   BibTeX file, enables [@key] citations")
	fmt.Fprintln(w, "      --beamer-theme <s>      Beamer theme")
	fmt.Fprintln(w, "      --class-option <s>      Extra document class option (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --paper <s>             Paper: a4, a5, letter, legal")
	fmt.Fprintln(w, "      --orientation <s>       Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <length>       Margin as a TeX length (e.g. 2cm)")
	fmt.Fprintln(w, "      --one-side              One-sided layout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --style <name|path>     Preamble style: default, minimal, or a .tex file")
	fmt.Fprintln(w, "      --template-set <name>   Title page template set")
	fmt.Fprintln(w, "      --template <path>       Document template with a HERADOCBODY line")
	fmt.Fprintln(w, "      --asset-path <dir>      Custom styles and template sets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Includes:")
	fmt.Fprintln(w, "      --project-root <dir>    Directory relative includes may not leave")
	fmt.Fprintln(w, "      --allow-absolute <dir>  Allow absolute includes below dir (repeatable)")
	fmt.Fprintln(w, "      --allow-all-absolute    Allow absolute includes anywhere")
	fmt.Fprintln(w, "      --remote                Allow http(s) includes")
	fmt.Fprintln(w, "      --cache-dir <dir>       Remote include cache")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --pdf                   Compile the generated LaTeX to PDF")
	fmt.Fprintln(w, "  -e, --engine <s>            Engine: latexmk, pdflatex, xelatex, lualatex")
	fmt.Fprintln(w, "  -t, --timeout <duration>    Timeout per tool run (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2LATEX_CONFIG, MD2LATEX_BACKEND, MD2LATEX_STYLE, MD2LATEX_ENGINE,")
	fmt.Fprintln(w, "  MD2LATEX_TIMEOUT, MD2LATEX_OUTPUT_DIR, MD2LATEX_AUTHOR, MD2LATEX_DATE,")
	fmt.Fprintln(w, "  MD2LATEX_LANG, MD2LATEX_PROJECT_ROOT, MD2LATEX_CACHE_DIR, MD2LATEX_WORKERS")
	fmt.Fprintln(w, "  override the config file; flags override both.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2latex doctor [--engine <s>] [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the LaTeX engine, biber, graphviz and Chrome (SVG images).")
	fmt.Fprintln(w, "Exits 1 when the engine is missing.")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2latex config [-c <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Validate the config file and print the effective configuration as YAML,")
	fmt.Fprintln(w, "environment variables applied.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2latex version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2latex help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
