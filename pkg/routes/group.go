// Package routes declares handler trees that modules register on a ServeMux.
package routes

import "net/http"

// Route is a method, a path relative to its group, and the handler for it.
// An empty Pattern matches the group prefix itself.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group nests routes under Prefix. Children inherit the accumulated prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Flatten resolves every route in the tree to its full "METHOD /path"
// pattern, parents before children.
func (g Group) Flatten() []Route {
	return g.flatten("")
}

func (g Group) flatten(parent string) []Route {
	prefix := parent + g.Prefix

	out := make([]Route, 0, len(g.Routes))
	for _, r := range g.Routes {
		out = append(out, Route{
			Method:  r.Method,
			Pattern: prefix + r.Pattern,
			Handler: r.Handler,
		})
	}
	for _, child := range g.Children {
		out = append(out, child.flatten(prefix)...)
	}
	return out
}

// Register mounts every group on mux. Conflicting patterns panic, as they
// do for ServeMux.HandleFunc.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		for _, r := range g.Flatten() {
			mux.HandleFunc(r.Method+" "+r.Pattern, r.Handler)
		}
	}
}
