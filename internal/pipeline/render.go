package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/JaimeStill/document-context/pkg/image"
	"golang.org/x/sync/errgroup"
)

const sourcePDF = "source.pdf"

// Renderer converts PDF bytes into one PNG data URI per page, in page order.
type Renderer interface {
	Render(ctx context.Context, pdf []byte) ([]string, error)
}

type pdfRenderer struct {
	dpi     int
	workers func(n int) int
}

// NewRenderer returns a Renderer that rasterizes pages through
// document-context's ImageMagick renderer at the given DPI.
func NewRenderer(dpi, maxConcurrency int) Renderer {
	return &pdfRenderer{
		dpi:     dpi,
		workers: func(n int) int { return workerCount(maxConcurrency, n) },
	}
}

func (r *pdfRenderer) Render(ctx context.Context, pdf []byte) ([]string, error) {
	tempDir, err := os.MkdirTemp("", "footprint-render-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp directory: %w", ErrRenderFailed, err)
	}
	defer os.RemoveAll(tempDir)

	pdfPath := filepath.Join(tempDir, sourcePDF)
	if err := os.WriteFile(pdfPath, pdf, 0600); err != nil {
		return nil, fmt.Errorf("%w: write temp pdf: %w", ErrRenderFailed, err)
	}

	pdfDoc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %w", ErrRenderFailed, err)
	}
	defer pdfDoc.Close()

	cfg := config.DefaultImageConfig()
	cfg.Format = "png"
	cfg.DPI = r.dpi

	renderer, err := image.NewImageMagickRenderer(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create renderer: %w", ErrRenderFailed, err)
	}

	pages, err := pdfDoc.ExtractAllPages()
	if err != nil {
		return nil, fmt.Errorf("%w: extract pages: %w", ErrRenderFailed, err)
	}

	uris := make([]string, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers(len(pages)))

	for i, page := range pages {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			data, err := page.ToImage(renderer, nil)
			if err != nil {
				return fmt.Errorf("render page %d: %w", i+1, err)
			}

			uri, err := encoding.EncodeImageDataURI(data, document.PNG)
			if err != nil {
				return fmt.Errorf("encode page %d: %w", i+1, err)
			}

			uris[i] = uri
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	return uris, nil
}
