package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/device"
)

// CaptureTimeout bounds a single page capture.
const CaptureTimeout = 60 * time.Second

// URLSource captures a full-page screenshot of a web page as seen on a phone.
type URLSource struct {
	url    string
	settle time.Duration
	img    image.Image
}

func NewURLSource(url string) *URLSource {
	return &URLSource{url: url, settle: 2 * time.Second}
}

func (s *URLSource) capture(ctx context.Context) (image.Image, error) {
	if s.img != nil {
		return s.img, nil
	}

	ctx, cancel := context.WithTimeout(ctx, CaptureTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Headless,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var buf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Emulate(device.IPhone8),
		chromedp.Navigate(s.url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Sleep(s.settle),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", s.url, err)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode capture of %s: %w", s.url, err)
	}
	s.img = img
	return img, nil
}

func (s *URLSource) Dimensions(ctx context.Context) (int, int, error) {
	img, err := s.capture(ctx)
	if err != nil {
		return 0, 0, err
	}
	return img.Bounds().Dx(), img.Bounds().Dy(), nil
}

func (s *URLSource) Render(ctx context.Context) (image.Image, error) {
	return s.capture(ctx)
}

func (s *URLSource) Close() error {
	s.img = nil
	return nil
}
