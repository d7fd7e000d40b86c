package export

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"image"
	_ "image/png" // register the PNG decoder for DecodeConfig
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/jung-kurt/gofpdf"

	"github.com/khanhnv2901/nis2-assess/internal/compliance"
	"github.com/khanhnv2901/nis2-assess/internal/report"
	"github.com/khanhnv2901/nis2-assess/internal/shared/constants"
)

const (
	// a4Width and a4PageHeight are the page box the dashboard image is laid onto, in mm.
	a4Width      = 210.0
	a4PageHeight = 295.0

	defaultDashboardWidth   = 1200
	defaultRenderTimeout    = 60 * time.Second
	dashboardScaleFactor    = 2
	dashboardScreenshotName = "dashboard"
)

// Renderer turns an HTML page into a PNG screenshot of its full height.
type Renderer interface {
	Screenshot(ctx context.Context, page []byte) ([]byte, error)
}

// ChromeRenderer screenshots pages with a headless Chrome driven by chromedp.
type ChromeRenderer struct {
	// ExecPath overrides the browser binary. Empty uses chromedp's lookup.
	ExecPath string
	// Width is the viewport width in CSS pixels.
	Width int
	// Timeout bounds a single render.
	Timeout time.Duration
}

// NewChromeRenderer returns a renderer with the default viewport and timeout.
func NewChromeRenderer(execPath string) *ChromeRenderer {
	return &ChromeRenderer{ExecPath: execPath, Width: defaultDashboardWidth, Timeout: defaultRenderTimeout}
}

// Screenshot loads page from a temporary file and captures the full page.
func (c *ChromeRenderer) Screenshot(ctx context.Context, page []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "nis2-dashboard-")
	if err != nil {
		return nil, fmt.Errorf("create render directory: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, dashboardScreenshotName+".html")
	if err := os.WriteFile(path, page, constants.DefaultFilePerm); err != nil {
		return nil, fmt.Errorf("write dashboard page: %w", err)
	}

	width := c.Width
	if width <= 0 {
		width = defaultDashboardWidth
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.WindowSize(width, 1024))
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}
	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	var shot []byte
	target := url.URL{Scheme: "file", Path: path}
	err = chromedp.Run(runCtx,
		emulation.SetDeviceMetricsOverride(int64(width), 0, dashboardScaleFactor, false),
		chromedp.Navigate(target.String()),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&shot, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}
	return shot, nil
}

var dashboardTemplate = htmltemplate.Must(
	htmltemplate.New("dashboard.html").Funcs(documentFuncs).ParseFS(templateFS, dashboardHTMLPath),
)

type dashboardData struct {
	*report.Report
	ReportDate string
	Statuses   []statusCount
}

type statusCount struct {
	Label string
	Color string
	Count int
}

// RenderDashboardHTML writes the dashboard page that WriteDashboardPDF screenshots.
func RenderDashboardHTML(w io.Writer, r *report.Report) error {
	data := dashboardData{Report: r, ReportDate: r.Metadata.ReportDate.Format(displayDate)}
	for _, s := range compliance.Statuses() {
		data.Statuses = append(data.Statuses, statusCount{Label: s.Label(), Color: s.Color(), Count: r.Summary.Count(s)})
	}
	return dashboardTemplate.Execute(w, data)
}

// WriteDashboardPDF renders the dashboard, screenshots it with renderer and
// paginates the image onto A4 pages.
func WriteDashboardPDF(ctx context.Context, renderer Renderer, w io.Writer, r *report.Report) error {
	var page bytes.Buffer
	if err := RenderDashboardHTML(&page, r); err != nil {
		return fmt.Errorf("render dashboard page: %w", err)
	}
	shot, err := renderer.Screenshot(ctx, page.Bytes())
	if err != nil {
		return err
	}
	return ImageToPDF(shot, w)
}

// ImageToPDF lays a PNG across as many A4 pages as its height needs, scaled to
// the page width. Each page shows the next slice of the image.
func ImageToPDF(png []byte, w io.Writer) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return fmt.Errorf("decode dashboard image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("dashboard image has no area")
	}

	imgHeight := float64(cfg.Height) * a4Width / float64(cfg.Width)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("nis2-assess", true)

	opts := gofpdf.ImageOptions{ImageType: "PNG", AllowNegativePosition: true}
	pdf.RegisterImageOptionsReader(dashboardScreenshotName, opts, bytes.NewReader(png))
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load dashboard image: %w", err)
	}

	position := 0.0
	heightLeft := imgHeight
	pdf.AddPage()
	pdf.ImageOptions(dashboardScreenshotName, 0, position, a4Width, imgHeight, false, opts, 0, "")
	heightLeft -= a4PageHeight

	for heightLeft > 0 {
		position = heightLeft - imgHeight
		pdf.AddPage()
		pdf.ImageOptions(dashboardScreenshotName, 0, position, a4Width, imgHeight, false, opts, 0, "")
		heightLeft -= a4PageHeight
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return nil
}

// PageCount is the number of A4 pages ImageToPDF produces for an image of
// the given pixel size.
func PageCount(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	imgHeight := float64(height) * a4Width / float64(width)
	pages := 1
	for left := imgHeight - a4PageHeight; left > 0; left -= a4PageHeight {
		pages++
	}
	return pages
}
