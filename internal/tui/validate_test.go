// ABOUTME: Tests for store path validation used by the setup wizard.
// ABOUTME: Covers missing files, valid and corrupt stores, and file-as-directory paths.
package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateStorePath_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new", "dir", "app.json")
	if err := ValidateStorePath(context.Background(), path); err != nil {
		t.Fatalf("expected missing file to be acceptable, got %v", err)
	}
}

func TestValidateStorePath_ValidStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	data := `[{"date":"01/01/24","restaurant":"a","location":"b","food":"c","review":"d","rating":4}]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write store: %v", err)
	}
	if err := ValidateStorePath(context.Background(), path); err != nil {
		t.Fatalf("expected valid store, got %v", err)
	}
}

func TestValidateStorePath_CorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	if err := os.WriteFile(path, []byte(`{"not":"an array"}`), 0644); err != nil {
		t.Fatalf("failed to write store: %v", err)
	}
	if err := ValidateStorePath(context.Background(), path); err == nil {
		t.Fatal("expected error for corrupt store")
	}
}

func TestValidateStorePath_ParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := ValidateStorePath(context.Background(), filepath.Join(blocker, "app.json")); err == nil {
		t.Fatal("expected error when parent is a file")
	}
}

func TestValidateStorePath_Empty(t *testing.T) {
	if err := ValidateStorePath(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestValidateStorePath_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ValidateStorePath(ctx, filepath.Join(t.TempDir(), "app.json")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestValidateStorePath_NullValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	data := `[null,{"date":null,"restaurant":"a","location":"b","food":"c","review":"d","rating":4}]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write store: %v", err)
	}
	if err := ValidateStorePath(context.Background(), path); err != nil {
		t.Fatalf("expected store with nulls to be accepted, got %v", err)
	}
}
