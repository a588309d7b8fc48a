package pipeline

import (
	"context"

	"github.com/JaimeStill/footprint/internal/documents"
)

// RouterNode loads the raw document bytes into the state, drops the
// outputs of any earlier run, and marks the document as extracting. A
// re-run therefore never shows results from two different runs.
func RouterNode(rt *Runtime) Node {
	return &stage[[]byte]{
		name:   NodeRouter,
		status: documents.StatusExtracting,
		done:   func(s State) bool { return s.RawInput != nil },
		step: func(ctx context.Context, s State) ([]byte, error) {
			raw, err := rt.Documents.ReadRawInput(ctx, s.DocumentID)
			if err != nil {
				return nil, err
			}
			if err := rt.Results.Clear(ctx, s.DocumentID); err != nil {
				return nil, err
			}
			return raw, nil
		},
		attach: State.WithRawInput,
		docs:   rt.Documents,
		logger: rt.Logger.With("node", NodeRouter),
	}
}
