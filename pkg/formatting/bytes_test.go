package formatting_test

import (
	"testing"

	"github.com/JaimeStill/footprint/pkg/formatting"
)

const mb = 1024 * 1024

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "1024", want: 1024},
		{input: "512B", want: 512},
		{input: "10MB", want: 10 * mb},
		{input: "10mb", want: 10 * mb},
		{input: " 100 MB ", want: 100 * mb},
		{input: "1.5KB", want: 1536},
		{input: "2MiB", want: 2 * mb},
		{input: "1GB", want: 1024 * mb},
		{input: "0", want: 0},
		{input: "", wantErr: true},
		{input: "MB", wantErr: true},
		{input: "-5MB", wantErr: true},
		{input: "50XB", wantErr: true},
		{input: "1.2.3MB", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 2, "0.00 B"},
		{500, 0, "500 B"},
		{1024, -1, "1 KB"},
		{1536 * 1024, 1, "1.5 MB"},
		{10 * mb, 0, "10 MB"},
		{1024 * 1024 * mb, 0, "1 TB"},
	}

	for _, tt := range tests {
		if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
			t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
		}
	}
}

func TestBytesRoundTrip(t *testing.T) {
	for _, n := range []int64{1024, 50 * mb, 1024 * mb} {
		formatted := formatting.FormatBytes(n, 0)
		parsed, err := formatting.ParseBytes(formatted)
		if err != nil || parsed != n {
			t.Errorf("%d -> %q -> %d, %v", n, formatted, parsed, err)
		}
	}
}
