package webresearch

import (
	"context"
	"os/exec"

	"github.com/chromedp/chromedp"
)

// Browser fetches page text through a headless Chrome instance.
type Browser struct {
	execPath string
}

// NewBrowser locates a usable Chrome binary; execPath overrides discovery.
func NewBrowser(execPath string) *Browser {
	if execPath == "" {
		execPath = findChromeBinary()
	}
	return &Browser{execPath: execPath}
}

// FetchPageText navigates to url and returns the rendered body text.
func (b *Browser) FetchPageText(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var text string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return text, nil
}

func findChromeBinary() string {
	candidates := []string{
		"google-chrome",
		"google-chrome-stable",
		"chromium",
		"chromium-browser",
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
