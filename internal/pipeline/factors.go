package pipeline

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed factors.json
var defaultFactors []byte

// LoadFactors returns the emission factor reference index sent with the
// calculate prompt. An empty path selects the embedded index.
func LoadFactors(path string) ([]byte, error) {
	data := defaultFactors

	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read factors: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFactors, err)
	}

	return buf.Bytes(), nil
}
