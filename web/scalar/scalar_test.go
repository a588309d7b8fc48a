package scalar_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/footprint/web/scalar"
)

func TestModuleServesReference(t *testing.T) {
	m := scalar.NewModule("/scalar", "/api/openapi.json")

	if m.Prefix() != "/scalar" {
		t.Errorf("prefix: got %s, want /scalar", m.Prefix())
	}

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/scalar", nil))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content-type: got %s", ct)
	}

	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), `data-url="/api/openapi.json"`) {
		t.Errorf("spec url not rendered: %s", body)
	}
}
