// ABOUTME: Tests for MCP server creation and validation.
// ABOUTME: Verifies the server requires a review store and accepts options.
package mcp

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/2389-research/tastelog/internal/storage"
)

func TestNewServerRequiresStore(t *testing.T) {
	_, err := NewServer(nil)
	if err == nil {
		t.Error("expected error when review store is nil")
	}
}

func TestNewServerSuccess(t *testing.T) {
	store, err := storage.NewJSONStore(filepath.Join(t.TempDir(), "app.json"))
	if err != nil {
		t.Fatalf("NewJSONStore error: %v", err)
	}

	server, err := NewServer(store)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	if server == nil {
		t.Error("expected non-nil server")
	}
}

func TestNewServerWithLogger(t *testing.T) {
	store, _ := storage.NewJSONStore(filepath.Join(t.TempDir(), "app.json"))
	logger := zerolog.Nop().With().Str("test", "yes").Logger()

	server, err := NewServer(store, WithLogger(logger))
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	if server.log.GetLevel() != logger.GetLevel() {
		t.Error("expected logger option to be applied")
	}
}
