package mmd2png

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mmd2png/internal/process"
)

// Page scripts. The document sets data-ready after mermaid.run() resolves and
// data-render-error when it rejects.
const (
	jsSettled = `() => !!document.body &&
		(document.body.dataset.ready === '1' || document.body.dataset.renderError !== undefined)`
	jsRenderError = `() => (document.body && document.body.dataset.renderError) || ''`
	jsBoundingBox = `function () {
		const r = this.getBoundingClientRect();
		return JSON.stringify({x: r.left + window.scrollX, y: r.top + window.scrollY, width: r.width, height: r.height});
	}`
)

// rodSession implements browserSession with go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// newRodSession launches a headless browser and connects to it.
func newRodSession() (browserSession, error) {
	l := launcher.New().Headless(true)

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if noSandbox() {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		process.KillProcessGroup(l.PID())
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	return &rodSession{launcher: l, browser: browser}, nil
}

// noSandbox reports whether Chrome's sandbox must be disabled.
func noSandbox() bool {
	return os.Getenv("ROD_NO_SANDBOX") == "1" ||
		os.Getenv("CI") == "true" ||
		os.Getenv("ROD_BROWSER_BIN") != ""
}

// OpenPage creates a blank tab bound to ctx with the given viewport.
func (s *rodSession) OpenPage(ctx context.Context, viewport Viewport, scale float64) (browserPage, error) {
	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewport.Width,
		Height:            viewport.Height,
		DeviceScaleFactor: scale,
	})
	if err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	return &rodPage{page: page}, nil
}

// Close shuts the browser down and removes its profile directory.
// The process group is killed as well so renderer helpers do not linger.
func (s *rodSession) Close() error {
	var closeErr error
	if s.browser != nil {
		closeErr = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		process.KillProcessGroup(s.launcher.PID())
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.launcher = nil
	}
	return closeErr
}

// rodPage implements browserPage with go-rod.
type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Navigate(url string) error {
	if err := p.page.Navigate(url); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return nil
}

func (p *rodPage) WaitReady(timeout time.Duration) error {
	page := p.page.Timeout(timeout)
	defer page.CancelTimeout()

	if err := page.WaitLoad(); err != nil {
		return waitError(err)
	}
	if err := page.Wait(rod.Eval(jsSettled)); err != nil {
		return waitError(err)
	}

	res, err := p.page.Eval(jsRenderError)
	if err != nil {
		return fmt.Errorf("%w: reading render status: %v", ErrPageLoad, err)
	}
	if msg := res.Value.Str(); msg != "" {
		return fmt.Errorf("%w: %s", ErrDiagramSyntax, msg)
	}
	return nil
}

// waitError keeps deadline and cancellation errors recognizable for the caller.
func waitError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return context.DeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	return fmt.Errorf("%w: %v", ErrPageLoad, err)
}

func (p *rodPage) MeasureGraphic() (*BoundingBox, error) {
	found, el, err := p.page.Has("svg")
	if err != nil {
		return nil, fmt.Errorf("%w: querying svg: %v", ErrPageLoad, err)
	}
	if !found {
		return nil, nil
	}

	res, err := el.Eval(jsBoundingBox)
	if err != nil {
		return nil, fmt.Errorf("%w: measuring svg: %v", ErrPageLoad, err)
	}

	var box BoundingBox
	if err := json.Unmarshal([]byte(res.Value.Str()), &box); err != nil {
		return nil, fmt.Errorf("%w: decoding bounding box: %v", ErrPageLoad, err)
	}
	return &box, nil
}

func (p *rodPage) Capture(clip ClipRect) ([]byte, error) {
	data, err := p.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      clip.X,
			Y:      clip.Y,
			Width:  clip.Width,
			Height: clip.Height,
			Scale:  1,
		},
		CaptureBeyondViewport: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return data, nil
}

func (p *rodPage) Close() error {
	return p.page.Close()
}
