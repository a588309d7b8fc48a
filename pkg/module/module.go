// Package module mounts self-contained handler trees under single-segment
// path prefixes.
package module

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/JaimeStill/footprint/pkg/middleware"
)

// Module serves an inner handler below prefix with its own middleware.
// The inner handler sees paths with the prefix removed.
type Module struct {
	prefix string
	inner  http.Handler
	stack  middleware.Stack

	once    sync.Once
	wrapped http.Handler
}

// New panics unless prefix is a single segment such as "/api".
func New(prefix string, inner http.Handler) *Module {
	if err := checkPrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{prefix: prefix, inner: inner}
}

func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware. It has no effect once the module has served a
// request.
func (m *Module) Use(mw ...func(http.Handler) http.Handler) {
	m.stack.Use(mw...)
}

func (m *Module) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.once.Do(func() {
		m.wrapped = m.stack.Wrap(m.inner)
	})
	m.wrapped.ServeHTTP(w, strip(r, m.prefix))
}

func strip(r *http.Request, prefix string) *http.Request {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if rest == "" {
		rest = "/"
	}

	out := *r
	u := *r.URL
	u.Path = rest
	u.RawPath = ""
	out.URL = &u
	return &out
}

func checkPrefix(prefix string) error {
	switch {
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix %q must start with /", prefix)
	case len(prefix) == 1 || strings.Contains(prefix[1:], "/"):
		return fmt.Errorf("module prefix %q must be a single path segment", prefix)
	}
	return nil
}
