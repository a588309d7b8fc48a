package formatting_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/JaimeStill/footprint/pkg/formatting"
)

type lineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
}

func TestParse(t *testing.T) {
	diesel := lineItem{Description: "diesel", Quantity: 120, Unit: "L"}

	tests := []struct {
		name  string
		input string
		want  lineItem
	}{
		{"bare object", `{"description":"diesel","quantity":120,"unit":"L"}`, diesel},
		{"padded", "\n\t {\"description\":\"diesel\",\"quantity\":120,\"unit\":\"L\"}  \n", diesel},
		{"json fence", "```json\n{\"description\":\"diesel\",\"quantity\":120,\"unit\":\"L\"}\n```", diesel},
		{"plain fence", "```\n{\"description\":\"diesel\",\"quantity\":120,\"unit\":\"L\"}\n```", diesel},
		{"fence inside prose", "Extracted line:\n```json\n{\"description\":\"diesel\",\"quantity\":120,\"unit\":\"L\"}\n```\nLet me know.", diesel},
		{"object inside prose", `The item is {"description":"diesel","quantity":120,"unit":"L"}, per page 2.`, diesel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[lineItem](tt.input)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseShapes(t *testing.T) {
	items, err := formatting.Parse[[]lineItem](`Found: [{"description":"freight","quantity":3,"unit":"t"}] end`)
	if err != nil {
		t.Fatalf("slice: %v", err)
	}
	if len(items) != 1 || items[0].Unit != "t" {
		t.Errorf("slice = %+v", items)
	}

	m, err := formatting.Parse[map[string]any](`{"supplier_name":"Acme"}`)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if !reflect.DeepEqual(m, map[string]any{"supplier_name": "Acme"}) {
		t.Errorf("map = %v", m)
	}
}

func TestParseFailure(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"prose":        "I could not read this invoice.",
		"broken fence": "```json\n{\"description\":\n```",
		"long":         strings.Repeat("z", 1000),
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := formatting.Parse[lineItem](input)
			if !errors.Is(err, formatting.ErrParseFailed) {
				t.Fatalf("err = %v, want ErrParseFailed", err)
			}
			if got != (lineItem{}) {
				t.Errorf("partial result leaked: %+v", got)
			}
			if len(err.Error()) > 300 {
				t.Errorf("error not truncated: %d bytes", len(err.Error()))
			}
		})
	}
}
