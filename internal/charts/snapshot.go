package charts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"

	"raptorcli/internal/config"
	"raptorcli/internal/errors"
)

// Snapshotter rasterizes rendered chart pages to PNG using a headless
// browser. Each chart gets its own browser context; concurrency is bounded
// by the configured worker count.
type Snapshotter struct {
	timeout time.Duration
	workers int
	logger  *slog.Logger
}

// NewSnapshotter creates a snapshotter from the charts configuration.
func NewSnapshotter(cfg config.ChartsConfig, logger *slog.Logger) *Snapshotter {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.SnapshotTimeout
	if timeout <= 0 {
		timeout = config.ChartSnapshotTimeout
	}
	workers := cfg.SnapshotWorkers
	if workers <= 0 {
		workers = config.DefaultSnapshotWorkers
	}
	return &Snapshotter{timeout: timeout, workers: workers, logger: logger}
}

// PNGPath returns the snapshot path for a rendered chart page.
func PNGPath(htmlPath string) string {
	return strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + ".png"
}

// SnapshotAll captures a PNG for each chart page. It returns the snapshot
// paths written. A failure on one chart cancels the remaining work.
func (s *Snapshotter) SnapshotAll(ctx context.Context, htmlPaths []string) ([]string, error) {
	written := make([]string, len(htmlPaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, htmlPath := range htmlPaths {
		i, htmlPath := i, htmlPath
		g.Go(func() error {
			pngPath := PNGPath(htmlPath)
			if err := s.snapshot(gctx, htmlPath, pngPath); err != nil {
				return err
			}
			written[i] = pngPath
			s.logger.Info("Chart snapshot written", slog.String("file", filepath.Base(pngPath)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return written, nil
}

// snapshot renders one chart page in a fresh headless browser and writes the
// screenshot.
func (s *Snapshotter) snapshot(ctx context.Context, htmlPath, pngPath string) error {
	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return errors.NewChartError(fmt.Sprintf("failed to resolve chart path %s", htmlPath), err)
	}

	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, s.timeout)
	defer cancelTimeout()

	var buf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate("file://" + absPath),
		chromedp.WaitVisible("canvas", chromedp.ByQuery),
		// Let the echarts animation settle before capturing.
		chromedp.Sleep(time.Second),
		chromedp.FullScreenshot(&buf, 100),
	}
	if err := chromedp.Run(timeoutCtx, tasks); err != nil {
		return errors.NewChartError(fmt.Sprintf("failed to capture chart %s", filepath.Base(htmlPath)), err)
	}

	if err := os.WriteFile(pngPath, buf, 0644); err != nil {
		return errors.NewChartError(fmt.Sprintf("failed to write snapshot %s", filepath.Base(pngPath)), err)
	}
	return nil
}
