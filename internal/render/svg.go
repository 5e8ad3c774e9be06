package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-md2latex/internal/hints"
	"github.com/alnah/go-md2latex/internal/process"
)

// cssPixelsPerInch converts browser sizes to PDF paper sizes.
const cssPixelsPerInch = 96

// svgConverter prints SVG files to single-page PDFs through headless
// Chrome. Rod downloads Chromium on first run if none is found.
type svgConverter struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newSVGConverter(timeout time.Duration) *svgConverter {
	return &svgConverter{timeout: timeout}
}

// ensureBrowser lazily starts and connects to the browser.
func (c *svgConverter) ensureBrowser() error {
	if c.browser != nil {
		return nil
	}

	l := launcher.New()
	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}
	c.launcher = l
	c.browser = browser
	return nil
}

// Close releases browser resources. The process group is killed as well,
// since Chrome leaves helper processes behind.
func (c *svgConverter) Close() error {
	if c.browser == nil {
		return nil
	}
	err := c.browser.Close()
	if pid := c.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	c.launcher.Cleanup()
	c.browser = nil
	c.launcher = nil
	return err
}

// convert prints svgPath to pdfPath on a page exactly the size of the image.
func (c *svgConverter) convert(ctx context.Context, svgPath, pdfPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := filepath.Abs(svgPath)
	if err != nil {
		return err
	}
	if err := c.ensureBrowser(); err != nil {
		return err
	}

	page, err := c.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "file://" + filepath.ToSlash(abs)})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer func() { _ = page.Close() }()

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	size, err := page.Eval(`() => {
		const r = document.documentElement.getBoundingClientRect();
		return {w: r.width, h: r.height};
	}`)
	if err != nil {
		return fmt.Errorf("%w: measuring image: %v", ErrPDFGeneration, err)
	}
	width := size.Value.Get("w").Num()
	height := size.Value.Get("h").Num()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: image has no size", ErrPDFGeneration)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width / cssPixelsPerInch),
		PaperHeight:     floatPtr(height / cssPixelsPerInch),
		MarginTop:       floatPtr(0),
		MarginBottom:    floatPtr(0),
		MarginLeft:      floatPtr(0),
		MarginRight:     floatPtr(0),
		PrintBackground: true,
		PageRanges:      "1",
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", pdfPath, err)
	}
	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}
