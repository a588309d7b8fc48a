package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/footprint/internal/documents"
	"github.com/JaimeStill/footprint/internal/prompts"
	"github.com/JaimeStill/footprint/internal/results"
)

type pageFields map[string]any

// ExtractNode renders the document to page images, extracts the declared
// fields from each page concurrently, and merges the pages in order.
func ExtractNode(rt *Runtime) Node {
	return &stage[results.Extraction]{
		name:   NodeExtract,
		status: documents.StatusCalculating,
		done:   func(s State) bool { return s.Extraction != nil },
		step: func(ctx context.Context, s State) (results.Extraction, error) {
			return extract(ctx, rt, s.RawInput)
		},
		persist: rt.Results.SaveExtraction,
		attach:  State.WithExtraction,
		docs:    rt.Documents,
		logger:  rt.Logger.With("node", NodeExtract),
	}
}

func extract(ctx context.Context, rt *Runtime, pdf []byte) (results.Extraction, error) {
	images, err := rt.Renderer.Render(ctx, pdf)
	if err != nil {
		return results.Extraction{}, err
	}

	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageExtract, "")
	if err != nil {
		return results.Extraction{}, err
	}

	pages := make([]pageFields, len(images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.workers(len(images)))

	for i := range images {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			out, err := invoke(
				gctx, rt, prompts.StageExtract, prompt,
				images[i:i+1], extractContract, pageFallback,
			)
			if err != nil {
				return err
			}

			pages[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results.Extraction{}, err
	}

	return mergePages(pages), nil
}

func pageFallback(raw string) pageFields {
	return pageFields{results.RawResponseKey: raw}
}

// mergePages folds page outputs in page order. A later non-null value
// overrides an earlier one; keys outside the declared field list are dropped.
func mergePages(pages []pageFields) results.Extraction {
	e := results.Extraction{
		Fields: make(map[string]string),
		Pages:  len(pages),
	}

	for _, page := range pages {
		if raw, ok := page[results.RawResponseKey].(string); ok {
			e.Raw = append(e.Raw, raw)
			continue
		}

		for _, name := range results.ExtractionFields {
			v, ok := page[name]
			if !ok || v == nil {
				continue
			}
			e.Fields[name] = fieldText(v)
		}
	}

	return e
}

func fieldText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}
