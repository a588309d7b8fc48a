// Package middleware holds the HTTP wrappers shared by every module.
package middleware

import "net/http"

// Stack is an ordered list of middleware. The first entry sees the
// request first.
type Stack []func(http.Handler) http.Handler

func (s *Stack) Use(mw ...func(http.Handler) http.Handler) {
	*s = append(*s, mw...)
}

// Wrap returns h wrapped by every middleware in s.
func (s Stack) Wrap(h http.Handler) http.Handler {
	for i := len(s) - 1; i >= 0; i-- {
		h = s[i](h)
	}
	return h
}
