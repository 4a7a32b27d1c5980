// ABOUTME: Store path validation for the setup wizard.
// ABOUTME: Confirms the chosen store file is loadable, or that it can be created.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389-research/tastelog/internal/config"
	"github.com/2389-research/tastelog/internal/storage"
)

// ValidateStorePath checks that storePath either holds a readable store file
// or names a location where one can be created.
// The context allows cancellation when the user quits during validation.
func ValidateStorePath(ctx context.Context, storePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := config.ExpandPath(strings.TrimSpace(storePath))
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("store path is empty")
	}

	report, err := storage.Check(path)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}
	if !report.OK() {
		return fmt.Errorf("%s is not a valid store file: %s", path, strings.Join(report.Problems, "; "))
	}
	if report.Exists {
		return nil
	}

	// A missing file is fine if its nearest existing ancestor is a directory.
	dir := filepath.Dir(path)
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}
			return ctx.Err()
		}
		if !os.IsNotExist(err) {
			return err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ctx.Err()
		}
		dir = parent
	}
}
