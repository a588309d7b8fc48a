package middleware

import (
	"os"
	"strconv"
	"strings"
)

func getenv(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	v := os.Getenv(name)
	return v, v != ""
}

func envString(name string, dst *string) {
	if v, ok := getenv(name); ok {
		*dst = v
	}
}

func envBool(name string, dst *bool) {
	if v, ok := getenv(name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envInt(name string, dst *int) {
	if v, ok := getenv(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// envList reads a comma separated value, dropping blank entries.
func envList(name string, dst *[]string) {
	v, ok := getenv(name)
	if !ok {
		return
	}
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
