// Package openapi describes an HTTP API as an OpenAPI 3.1 document built
// from Go values and serves the serialized result.
package openapi

import (
	"encoding/json"
	"net/http"
)

type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

type Server struct {
	URL string `json:"url"`
}

// New starts a spec titled from cfg with the shared components
// registered. Each server is a base URL the paths are relative to.
func New(cfg Config, version string, servers ...string) *Spec {
	s := &Spec{
		OpenAPI: "3.1.0",
		Info: &Info{
			Title:       cfg.Title,
			Version:     version,
			Description: cfg.Description,
		},
		Paths:      make(map[string]*PathItem),
		Components: NewComponents(),
	}
	for _, url := range servers {
		s.Servers = append(s.Servers, &Server{URL: url})
	}
	return s
}

// JSON renders the spec as indented JSON.
func (s *Spec) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ServeSpec serves a pre-rendered spec. Rendering once at startup keeps
// marshal errors out of the request path.
func ServeSpec(body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(body)
	}
}
