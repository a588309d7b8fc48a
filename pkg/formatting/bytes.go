// Package formatting converts between human-readable and machine values:
// byte sizes in configuration and JSON embedded in model responses.
package formatting

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// units are base-1024 byte units in ascending order.
var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n with the largest unit that keeps the value at or
// above 1, e.g. 10485760 -> "10 MB". Negative precision is treated as 0.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	size := float64(n)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}

	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes reads sizes such as "50MB", "1.5 GB", "10mb" or "1024".
// A bare number is bytes. A trailing "iB" form ("MiB") is accepted as
// the same base-1024 unit.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.TrimSpace(s[split:])
	}
	if number == "" {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	unit = strings.ToUpper(unit)
	if len(unit) == 3 && strings.HasSuffix(unit, "IB") {
		unit = unit[:1] + "B"
	}
	if unit == "" {
		unit = "B"
	}

	multiplier := int64(1)
	for _, u := range units {
		if u == unit {
			return int64(value * float64(multiplier)), nil
		}
		multiplier *= 1024
	}
	return 0, fmt.Errorf("unknown byte size unit %q", unit)
}
