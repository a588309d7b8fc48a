package pagination_test

import (
	"encoding/json"
	"net/url"
	"reflect"
	"testing"

	"github.com/JaimeStill/footprint/pkg/pagination"
	"github.com/JaimeStill/footprint/pkg/query"
)

var cfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("FP_TEST_PAGE_SIZE", "50")
	t.Setenv("FP_TEST_MAX_PAGE", "not-a-number")

	tests := []struct {
		name        string
		cfg         pagination.Config
		env         *pagination.ConfigEnv
		wantDefault int
		wantMax     int
		wantErr     bool
	}{
		{name: "defaults", wantDefault: 20, wantMax: 100},
		{
			name:        "env overrides and ignores malformed values",
			env:         &pagination.ConfigEnv{DefaultPageSize: "FP_TEST_PAGE_SIZE", MaxPageSize: "FP_TEST_MAX_PAGE"},
			wantDefault: 50,
			wantMax:     100,
		},
		{
			name:    "default exceeds max",
			cfg:     pagination.Config{DefaultPageSize: 200, MaxPageSize: 100},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(tt.env)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Finalize: %v", err)
			}
			if tt.cfg.DefaultPageSize != tt.wantDefault || tt.cfg.MaxPageSize != tt.wantMax {
				t.Errorf("got %d/%d, want %d/%d",
					tt.cfg.DefaultPageSize, tt.cfg.MaxPageSize, tt.wantDefault, tt.wantMax)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := cfg
	base.Merge(&pagination.Config{DefaultPageSize: 50})

	if base.DefaultPageSize != 50 || base.MaxPageSize != 100 {
		t.Errorf("merged = %+v, want {50 100}", base)
	}
}

func TestPageRequestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		req        pagination.PageRequest
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{"zero values", pagination.PageRequest{}, 1, 20, 0},
		{"negative page", pagination.PageRequest{Page: -1, PageSize: 10}, 1, 10, 0},
		{"size clamped", pagination.PageRequest{Page: 2, PageSize: 500}, 2, 100, 100},
		{"preserved", pagination.PageRequest{Page: 3, PageSize: 25}, 3, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(cfg)
			if tt.req.Page != tt.wantPage || tt.req.PageSize != tt.wantSize {
				t.Errorf("got page %d size %d, want %d %d",
					tt.req.Page, tt.req.PageSize, tt.wantPage, tt.wantSize)
			}
			if got := tt.req.Offset(); got != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", got, tt.wantOffset)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	t.Run("all params", func(t *testing.T) {
		req := pagination.PageRequestFromQuery(url.Values{
			"page":      {"2"},
			"page_size": {"15"},
			"search":    {"invoice"},
			"sort":      {"Filename,-UploadedAt"},
		}, cfg)

		want := []query.SortField{{Field: "Filename"}, {Field: "UploadedAt", Descending: true}}
		if req.Page != 2 || req.PageSize != 15 {
			t.Errorf("page %d size %d, want 2 15", req.Page, req.PageSize)
		}
		if req.Search == nil || *req.Search != "invoice" {
			t.Errorf("Search = %v, want invoice", req.Search)
		}
		if !reflect.DeepEqual([]query.SortField(req.Sort), want) {
			t.Errorf("Sort = %+v, want %+v", req.Sort, want)
		}
	})

	t.Run("malformed params fall back", func(t *testing.T) {
		req := pagination.PageRequestFromQuery(url.Values{"page": {"x"}, "page_size": {"-3"}}, cfg)
		if req.Page != 1 || req.PageSize != 20 || req.Search != nil || req.Sort != nil {
			t.Errorf("req = %+v, want defaults", req)
		}
	})
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		total     int
		wantPages int
	}{
		{100, 5},
		{101, 6},
		{5, 1},
		{0, 1},
	}

	for _, tt := range tests {
		result := pagination.NewPageResult([]string{"a"}, tt.total, 1, 20)
		if result.TotalPages != tt.wantPages {
			t.Errorf("total %d: TotalPages = %d, want %d", tt.total, result.TotalPages, tt.wantPages)
		}
	}

	empty := pagination.NewPageResult[string](nil, 0, 1, 20)
	data, _ := json.Marshal(empty)
	if string(data) != `{"data":[],"total":0,"page":1,"page_size":20,"total_pages":1}` {
		t.Errorf("empty page = %s", data)
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	want := pagination.SortFields{{Field: "Filename"}, {Field: "UploadedAt", Descending: true}}

	for _, input := range []string{
		`"Filename,-UploadedAt"`,
		`[{"Field":"Filename"},{"Field":"UploadedAt","Descending":true}]`,
	} {
		var got pagination.SortFields
		if err := json.Unmarshal([]byte(input), &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", input, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", input, got, want)
		}
	}

	var bad pagination.SortFields
	if err := json.Unmarshal([]byte(`42`), &bad); err == nil {
		t.Error("expected error for numeric sort")
	}
}
