package reports

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/drorlaib-lgtm/real-estate-automation/utils"
)

const renderTimeout = 30 * time.Second

// PDFRenderer prints HTML documents to A4 PDF with a headless Chromium.
type PDFRenderer struct {
	chromePath string
	retry      utils.RetryConfig
}

// NewPDFRenderer returns a renderer using chromeBin, or the first Chromium
// found on the usual paths when chromeBin is empty.
func NewPDFRenderer(chromeBin string, retry utils.RetryConfig) *PDFRenderer {
	if chromeBin == "" {
		chromeBin = detectChromePath()
	}
	return &PDFRenderer{chromePath: chromeBin, retry: retry}
}

// Render prints htmlDoc to PDF. Browser start-up failures are retried.
func (r *PDFRenderer) Render(ctx context.Context, htmlDoc string) ([]byte, error) {
	var pdf []byte
	err := r.retry.Do(ctx, "pdf render", func() error {
		out, err := r.render(ctx, htmlDoc)
		if err != nil {
			return err
		}
		pdf = out
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reports: %w", err)
	}
	return pdf, nil
}

func (r *PDFRenderer) render(ctx context.Context, htmlDoc string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, opts...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL(htmlDoc)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(pageFooter).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return pdf, nil
}

const pageFooter = `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
	`עמוד <span class="pageNumber"></span> מתוך <span class="totalPages"></span></div>`

func dataURL(htmlDoc string) string {
	return "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
}

func detectChromePath() string {
	for _, p := range []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
