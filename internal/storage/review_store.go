// ABOUTME: Interface definition for review entry storage.
// ABOUTME: Defines the load, save, query and mutation contract used by every UI layer.
package storage

import (
	"github.com/2389-research/tastelog/internal/models"
)

// ReviewStore defines operations over the persisted review collection.
// Every call is a self-contained load (and, for mutations, save) cycle.
type ReviewStore interface {
	// Load returns the full collection. A missing file yields an empty collection.
	Load() ([]models.Entry, error)

	// Save replaces the persisted collection.
	Save(entries []models.Entry) error

	// Append validates and normalizes the input, then adds it at the end.
	Append(in models.EntryInput) ([]models.Entry, error)

	// FindByKey returns the index of the first entry matching the lowercase
	// restaurant, location and food. found is false when nothing matches.
	FindByKey(restaurant, location, food string) (index int, found bool, err error)

	// ReplaceAt validates the input and replaces the entry at index.
	ReplaceAt(index int, in models.EntryInput) ([]models.Entry, error)

	// FilterByFoodAndLocation returns entries matching food and location, in order.
	FilterByFoodAndLocation(food, location string) ([]models.Entry, error)

	// FilterByFood returns entries matching food, in order.
	FilterByFood(food string) ([]models.Entry, error)

	// FilterByFoodAndRestaurant returns entries matching food and restaurant, in order.
	FilterByFoodAndRestaurant(food, restaurant string) ([]models.Entry, error)

	// RemoveByEquality removes the first entry equal to e. The file is only
	// rewritten when removed is true.
	RemoveByEquality(e models.Entry) (entries []models.Entry, removed bool, err error)

	// Path returns the store file location.
	Path() string

	// Close releases any resources held by the store.
	Close() error
}
