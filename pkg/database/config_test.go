package database_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/footprint/pkg/database"
)

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := database.Config{Name: "footprint", User: "svc"}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		want := database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "footprint",
			User:            "svc",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		}
		if cfg != want {
			t.Errorf("got %+v\nwant %+v", cfg, want)
		}
		if cfg.Lifetime() != 15*time.Minute || cfg.Timeout() != 5*time.Second {
			t.Errorf("durations = %v, %v", cfg.Lifetime(), cfg.Timeout())
		}
	})

	t.Run("file values survive defaults", func(t *testing.T) {
		cfg := database.Config{Name: "footprint", User: "svc", Port: 6543, MaxOpenConns: 4, MaxIdleConns: 2}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.Port != 6543 || cfg.MaxOpenConns != 4 || cfg.MaxIdleConns != 2 {
			t.Errorf("got %+v", cfg)
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("FP_TEST_DB_HOST", "db.internal")
		t.Setenv("FP_TEST_DB_PORT", "5433")
		t.Setenv("FP_TEST_DB_USER", "envuser")
		t.Setenv("FP_TEST_DB_TIMEOUT", "12s")
		t.Setenv("FP_TEST_DB_MAX_OPEN", "not-a-number")

		env := &database.Env{
			Host:         "FP_TEST_DB_HOST",
			Port:         "FP_TEST_DB_PORT",
			User:         "FP_TEST_DB_USER",
			ConnTimeout:  "FP_TEST_DB_TIMEOUT",
			MaxOpenConns: "FP_TEST_DB_MAX_OPEN",
		}

		cfg := database.Config{Name: "footprint", User: "fileuser"}
		if err := cfg.Finalize(env); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.Host != "db.internal" || cfg.Port != 5433 || cfg.User != "envuser" {
			t.Errorf("got %+v", cfg)
		}
		if cfg.Timeout() != 12*time.Second {
			t.Errorf("Timeout() = %v", cfg.Timeout())
		}
		if cfg.MaxOpenConns != 25 {
			t.Errorf("unparseable int should be ignored, MaxOpenConns = %d", cfg.MaxOpenConns)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
		want []string
	}{
		{"missing name", database.Config{User: "svc"}, []string{"name required"}},
		{"missing both", database.Config{}, []string{"name required", "user required"}},
		{"idle above open", database.Config{Name: "n", User: "u", MaxOpenConns: 2, MaxIdleConns: 3}, []string{"max_idle_conns 3 exceeds max_open_conns 2"}},
		{"bad lifetime", database.Config{Name: "n", User: "u", ConnMaxLifetime: "forever"}, []string{"invalid conn_max_lifetime"}},
		{"bad timeout", database.Config{Name: "n", User: "u", ConnTimeout: "soon"}, []string{"invalid conn_timeout"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected error")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q missing %q", err, w)
				}
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := database.Config{Host: "localhost", Port: 5432, Name: "footprint", User: "svc"}
	base.Merge(&database.Config{Host: "replica", MaxIdleConns: 9})

	want := database.Config{Host: "replica", Port: 5432, Name: "footprint", User: "svc", MaxIdleConns: 9}
	if base != want {
		t.Errorf("got %+v\nwant %+v", base, want)
	}
}

func TestConfigURL(t *testing.T) {
	cfg := database.Config{
		Host:     "db",
		Port:     5432,
		Name:     "footprint",
		User:     "svc",
		Password: "p@ss/word",
		SSLMode:  "require",
	}

	u, err := url.Parse(cfg.URL())
	if err != nil {
		t.Fatalf("parse %q: %v", cfg.URL(), err)
	}
	if u.Scheme != "postgres" || u.Host != "db:5432" || u.Path != "/footprint" {
		t.Errorf("url = %s", u)
	}
	if pw, _ := u.User.Password(); pw != "p@ss/word" {
		t.Errorf("password = %q", pw)
	}
	if u.Query().Get("sslmode") != "require" {
		t.Errorf("sslmode = %q", u.Query().Get("sslmode"))
	}

	cfg.Password = ""
	if got := cfg.URL(); got != "postgres://svc@db:5432/footprint?sslmode=require" {
		t.Errorf("URL() without password = %s", got)
	}
}
