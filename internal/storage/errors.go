// ABOUTME: Typed errors returned by the review store.
// ABOUTME: Callers match them with errors.As and render them as user-facing messages.
package storage

import "fmt"

// CorruptStoreError reports a store file that exists but cannot be parsed.
// The store cannot recover from it; mutations should not proceed until the
// file is fixed or moved aside.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("store file %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptStoreError) Unwrap() error {
	return e.Err
}

// InvalidFieldError reports field input that failed validation. Nothing is
// written when it is returned.
type InvalidFieldError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *InvalidFieldError) Unwrap() error {
	return e.Err
}

// InvalidIndexError reports a replace target outside the collection, usually
// because the collection changed since the lookup.
type InvalidIndexError struct {
	Index int
	Len   int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("index %d out of range for %d entries", e.Index, e.Len)
}
