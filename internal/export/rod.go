package export

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Letter size, in inches.
const (
	paperWidth  = 8.5
	paperHeight = 11.0
)

// RodRasterizer prints documents with a headless Chromium it launches per
// call. Bin selects the browser binary; empty lets go-rod find or download
// one.
type RodRasterizer struct {
	Bin string
}

func (r *RodRasterizer) Rasterize(ctx context.Context, doc []byte, format Format) ([]byte, error) {
	l := launcher.New().Context(ctx).Headless(true)
	if r.Bin != "" {
		l = l.Bin(r.Bin)
	}
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetDocumentContent(string(doc)); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for document: %w", err)
	}

	switch format {
	case FormatPDF:
		w, h := paperWidth, paperHeight
		rd, err := page.PDF(&proto.PagePrintToPDF{
			PaperWidth:        &w,
			PaperHeight:       &h,
			PrintBackground:   true,
			PreferCSSPageSize: true,
		})
		if err != nil {
			return nil, fmt.Errorf("print pdf: %w", err)
		}
		return io.ReadAll(rd)
	case FormatPNG:
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             850,
			Height:            1100,
			DeviceScaleFactor: 2,
		})
		if err != nil {
			return nil, fmt.Errorf("set viewport: %w", err)
		}
		return page.Screenshot(true, &proto.PageCaptureScreenshot{
			Format: proto.PageCaptureScreenshotFormatPng,
		})
	}
	return nil, fmt.Errorf("rod cannot produce %q", format)
}
