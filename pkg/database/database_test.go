package database_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/footprint/pkg/database"
)

func TestNew(t *testing.T) {
	cfg := database.Config{Name: "footprint", User: "svc", MaxOpenConns: 7, MaxIdleConns: 3}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	sys, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	db := sys.Connection()
	if db == nil {
		t.Fatal("Connection() = nil")
	}
	defer db.Close()

	// sql.Open does not dial, so stats reflect only the pool settings.
	if got := db.Stats().MaxOpenConnections; got != 7 {
		t.Errorf("MaxOpenConnections = %d, want 7", got)
	}
	if got := db.Stats().OpenConnections; got != 0 {
		t.Errorf("OpenConnections = %d, want 0", got)
	}
}
