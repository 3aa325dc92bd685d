// Package capture rasterizes rendered invoice HTML with a headless
// Chromium instance. Every capture runs in a fresh tab whose viewport
// emulation is torn down with the tab, so a failed capture never leaks
// dimensions or theme overrides into later ones.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/oancholarevelo/invoice-builder/invoice"
)

const (
	// DefaultScale is the oversampling factor applied for print-quality
	// output.
	DefaultScale = 2.0
	// DefaultQuality is the JPEG encoding quality.
	DefaultQuality = 90
	// DefaultPageSize is the page the capture viewport is sized to.
	DefaultPageSize = "A4"
)

// Page dimensions in CSS pixels at 96dpi.
var pageSizesPixels = map[string]struct {
	width  int64
	height int64
}{
	"A3":     {width: 1123, height: 1587},
	"A4":     {width: 794, height: 1123},
	"A5":     {width: 559, height: 794},
	"LETTER": {width: 816, height: 1056},
	"LEGAL":  {width: 816, height: 1344},
}

// Options control a single capture.
type Options struct {
	// PageSize names the page the viewport is forced to (A4 default).
	PageSize string
	// Scale is the device scale factor; 2 doubles the bitmap resolution.
	Scale float64
	// Quality is the JPEG quality, 1-100.
	Quality int
	// ForceLightTheme emulates prefers-color-scheme light during the
	// capture regardless of the viewer's display theme.
	ForceLightTheme *bool
	// BlockExternalAssets prevents the page from reaching the network.
	BlockExternalAssets *bool
}

// Engine captures HTML as a bitmap using a shared headless Chromium.
type Engine struct {
	BrowserPath string
	Headless    bool
	Timeout     time.Duration
	Args        []string

	Defaults Options

	initOnce      sync.Once
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// Capture renders the HTML in a fresh tab sized to the requested page and
// returns the JPEG bytes. The tab and its emulation state are discarded
// whether or not the capture succeeds.
func (e *Engine) Capture(ctx context.Context, htmlInput []byte, opts Options) ([]byte, error) {
	if e == nil {
		return nil, invoice.NewError(invoice.KindInternal, "capture engine is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if len(htmlInput) == 0 {
		return nil, invoice.NewError(invoice.KindValidation, "capture input is empty", nil)
	}

	options := mergeOptions(e.defaultOptions(), opts)
	size, ok := pageSizesPixels[strings.ToUpper(options.PageSize)]
	if !ok {
		return nil, invoice.NewError(invoice.KindValidation, fmt.Sprintf("unsupported page size: %s", options.PageSize), nil)
	}
	if options.Scale < 1 || options.Scale > 4 {
		return nil, invoice.NewError(invoice.KindValidation, "capture scale must be between 1 and 4", nil)
	}
	if options.Quality < 1 || options.Quality > 100 {
		return nil, invoice.NewError(invoice.KindValidation, "capture quality must be between 1 and 100", nil)
	}

	if err := e.ensureBrowser(); err != nil {
		return nil, invoice.NewError(invoice.KindInternal, "capture engine init failed", err)
	}

	tabCtx, cancel := chromedp.NewContext(e.browserCtx)
	defer cancel()

	execCtx, cancelExec := execContext(ctx, tabCtx, e.Timeout)
	defer cancelExec()

	actions := []chromedp.Action{}
	if options.BlockExternalAssets == nil || *options.BlockExternalAssets {
		actions = append(actions,
			network.Enable(),
			network.SetBlockedURLs().WithURLPatterns(blockedURLPatterns()),
		)
	}

	actions = append(actions,
		chromedp.EmulateViewport(size.width, size.height, chromedp.EmulateScale(options.Scale)),
	)

	if options.ForceLightTheme == nil || *options.ForceLightTheme {
		actions = append(actions,
			emulation.SetEmulatedMedia().WithFeatures([]*emulation.MediaFeature{
				{Name: "prefers-color-scheme", Value: "light"},
			}),
		)
	}

	var shot []byte
	actions = append(actions,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(htmlInput)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)

	if options.ForceLightTheme == nil || *options.ForceLightTheme {
		actions = append(actions,
			chromedp.Evaluate(`document.documentElement.classList.remove("dark"); true`, nil),
		)
	}

	actions = append(actions,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			shot, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatJpeg).
				WithQuality(int64(options.Quality)).
				Do(ctx)
			return err
		}),
	)

	if err := chromedp.Run(execCtx, actions...); err != nil {
		return nil, invoice.NewError(invoice.KindInternal, "chromium capture failed", err)
	}
	return shot, nil
}

// execContext derives the run context for one capture from the tab
// context: caller cancellation propagates into it, and the engine timeout
// bounds it. The context is fully built before the watchdog goroutine
// starts observing it.
func execContext(caller, tab context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	execCtx, cancel := context.WithCancel(tab)
	if timeout > 0 {
		inner := cancel
		var cancelTimeout context.CancelFunc
		execCtx, cancelTimeout = context.WithTimeout(execCtx, timeout)
		cancel = func() {
			cancelTimeout()
			inner()
		}
	}
	go func() {
		select {
		case <-caller.Done():
			cancel()
		case <-execCtx.Done():
		}
	}()
	return execCtx, cancel
}

// blockedURLPatterns covers every network fetch; captures only see content
// injected via SetDocumentContent and inline data URIs.
func blockedURLPatterns() []*network.BlockPattern {
	return []*network.BlockPattern{
		{URLPattern: "http://*"},
		{URLPattern: "https://*"},
	}
}

// PageSizePixels reports the CSS pixel dimensions of a named page size.
func PageSizePixels(pageSize string) (width, height int64, ok bool) {
	size, ok := pageSizesPixels[strings.ToUpper(pageSize)]
	if !ok {
		return 0, 0, false
	}
	return size.width, size.height, true
}

// Close releases Chromium resources if they have been initialized.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	if e.browserCancel != nil {
		e.browserCancel()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	return nil
}

func (e *Engine) ensureBrowser() error {
	e.initOnce.Do(func() {
		options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if e.BrowserPath != "" {
			options = append(options, chromedp.ExecPath(e.BrowserPath))
		}
		options = append(options, chromedp.Flag("headless", e.Headless))
		options = append(options, allocatorOptionsFromArgs(e.Args)...)

		e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), options...)
		e.browserCtx, e.browserCancel = chromedp.NewContext(e.allocCtx)
	})
	if e.allocCtx == nil || e.browserCtx == nil {
		return errors.New("chromium allocator unavailable")
	}
	return nil
}

func (e *Engine) defaultOptions() Options {
	defaults := e.Defaults
	if defaults.PageSize == "" {
		defaults.PageSize = DefaultPageSize
	}
	if defaults.Scale == 0 {
		defaults.Scale = DefaultScale
	}
	if defaults.Quality == 0 {
		defaults.Quality = DefaultQuality
	}
	return defaults
}

func mergeOptions(base, override Options) Options {
	merged := base
	if override.PageSize != "" {
		merged.PageSize = override.PageSize
	}
	if override.Scale != 0 {
		merged.Scale = override.Scale
	}
	if override.Quality != 0 {
		merged.Quality = override.Quality
	}
	if override.ForceLightTheme != nil {
		merged.ForceLightTheme = override.ForceLightTheme
	}
	if override.BlockExternalAssets != nil {
		merged.BlockExternalAssets = override.BlockExternalAssets
	}
	return merged
}

func allocatorOptionsFromArgs(args []string) []chromedp.ExecAllocatorOption {
	options := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		arg = strings.TrimPrefix(arg, "--")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			options = append(options, chromedp.Flag(name, value))
			continue
		}
		options = append(options, chromedp.Flag(arg, true))
	}
	return options
}
