package module

import (
	"net/http"
	"strings"
)

// Router sends each request to the module owning its first path segment.
// Paths no module owns fall through to a plain ServeMux.
type Router struct {
	modules  map[string]*Module
	fallback *http.ServeMux
}

func NewRouter() *Router {
	return &Router{
		modules:  map[string]*Module{},
		fallback: http.NewServeMux(),
	}
}

// Mount replaces any module already mounted at the same prefix.
func (r *Router) Mount(m *Module) {
	r.modules[m.prefix] = m
}

// HandleNative registers pattern on the fallback mux.
func (r *Router) HandleNative(pattern string, h http.HandlerFunc) {
	r.fallback.HandleFunc(pattern, h)
}

// ServeHTTP trims one trailing slash before dispatching.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req.URL.Path = strings.TrimSuffix(p, "/")
	}

	if m, ok := r.modules[segment(req.URL.Path)]; ok {
		m.ServeHTTP(w, req)
		return
	}
	r.fallback.ServeHTTP(w, req)
}

func segment(path string) string {
	head, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return "/" + head
}
