package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	md2latex "github.com/alnah/go-md2latex"
)

// File permission constants.
const (
	dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute
)

// Sentinel errors for batch operations.
var (
	ErrReadMarkdown  = errors.New("failed to read markdown file")
	ErrDocumentError = errors.New("documents with errors")
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input md2latex.Input) (*md2latex.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*md2latex.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
}

// poolAdapter adapts md2latex.ConverterPool to the Pool interface.
type poolAdapter struct {
	pool *md2latex.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire() (CLIConverter, error) {
	conv, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics on a converter the pool did not hand out: that is a
// programming error.
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*md2latex.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	PDFPath    string
	Size       int // bytes of LaTeX
	Errors     int // error diagnostics
	Warnings   int
	Err        error
	Duration   time.Duration
}

// convertBatch processes files concurrently using the converter pool.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				// Converter creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       err,
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		result.Duration = time.Since(start)
		return result
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	out, err := conv.Convert(ctx, md2latex.Input{
		Markdown:   string(content),
		Name:       f.InputPath,
		SourceDir:  filepath.Dir(f.InputPath),
		Document:   params.document,
		Override:   params.override,
		OutputPath: f.OutputPath,
		PDF:        params.pdf,
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	result.PDFPath = out.PDFPath
	result.Size = len(out.LaTeX)
	result.Errors = out.Errors()
	result.Warnings = len(out.Diagnostics) - result.Errors
	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded  int
	Failed     int
	WithErrors int // converted, but with error diagnostics
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Errors > 0:
			summary.Succeeded++
			summary.WithErrors++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided
// writers. It returns an error when a conversion failed or a document has
// error diagnostics. A single failure is returned as is, so its exit code
// survives.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) error {
	summary := countResults(results)
	var errs []error

	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		created := r.OutputPath
		if r.PDFPath != "" {
			created += ", " + r.PDFPath
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %v, %s)\n", r.InputPath, created,
				humanize.Bytes(uint64(r.Size)), r.Duration.Round(time.Millisecond), plural(r.Warnings, "warning"))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", created)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	switch {
	case summary.Failed == 1 && len(results) == 1:
		return &reportedError{err: errs[0]}
	case summary.Failed > 0:
		return &reportedError{
			summary: fmt.Sprintf("%d conversion(s) failed", summary.Failed),
			err:     errors.Join(errs...),
		}
	case summary.WithErrors > 0:
		return fmt.Errorf("%w: %d of %d", ErrDocumentError, summary.WithErrors, len(results))
	}
	return nil
}

// reportedError wraps failures already printed per file. exitWith prints
// the summary, if any, instead of repeating them.
type reportedError struct {
	summary string
	err     error
}

func (e *reportedError) Error() string {
	if e.summary != "" {
		return e.summary
	}
	return e.err.Error()
}

func (e *reportedError) Unwrap() error { return e.err }

// plural formats n with noun, pluralized with an "s".
func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
