// ABOUTME: Core data models for restaurant review entries.
// ABOUTME: Provides the persisted Entry type, raw EntryInput, and key normalization helpers.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// DateHint is the date format suggested to users. It is not enforced.
const DateHint = "DD/MM/YY"

// Entry is one reviewed meal, as persisted in the store file.
// Entry is comparable; two entries are the same entry when all fields are equal.
type Entry struct {
	Date       string  `json:"date"`
	Restaurant string  `json:"restaurant"` // lowercase
	Location   string  `json:"location"`   // lowercase
	Food       string  `json:"food"`       // lowercase
	Review     string  `json:"review"`
	Rating     float64 `json:"rating"`
}

// EntryInput holds raw field text as collected by a UI, before validation.
type EntryInput struct {
	Date       string
	Restaurant string
	Location   string
	Food       string
	Review     string
	Rating     string
}

// FieldNames lists entry fields in display and persisted order.
var FieldNames = []string{"date", "restaurant", "location", "food", "review", "rating"}

// NormalizeKey lowercases a lookup field. Stored restaurant, location and
// food values, and every query against them, go through this.
func NormalizeKey(s string) string {
	return strings.ToLower(s)
}

// NormalizeQuery trims and lowercases a user-typed search term.
func NormalizeQuery(s string) string {
	return NormalizeKey(strings.TrimSpace(s))
}

// Normalized returns a copy with the lookup fields lowercased.
func (e Entry) Normalized() Entry {
	e.Restaurant = NormalizeKey(e.Restaurant)
	e.Location = NormalizeKey(e.Location)
	e.Food = NormalizeKey(e.Food)
	return e
}

// MatchesKey reports whether the entry's lookup fields equal the given
// (already lowercased) restaurant, location and food.
func (e Entry) MatchesKey(restaurant, location, food string) bool {
	return NormalizeKey(e.Restaurant) == restaurant &&
		NormalizeKey(e.Location) == location &&
		NormalizeKey(e.Food) == food
}

// Input converts an entry back to raw form, e.g. to pre-fill an edit form.
func (e Entry) Input() EntryInput {
	return EntryInput{
		Date:       e.Date,
		Restaurant: e.Restaurant,
		Location:   e.Location,
		Food:       e.Food,
		Review:     e.Review,
		Rating:     FormatRating(e.Rating),
	}
}

// FormatRating renders a rating without trailing zeros ("4", "3.5").
func FormatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Summary renders the entry the way list screens show it.
func (e Entry) Summary() string {
	return fmt.Sprintf("Date: %s\nRestaurant: %s\nLocation: %s\nFood: %s\nReview: %s\nRating: %s",
		orNA(e.Date), orNA(e.Restaurant), orNA(e.Location), orNA(e.Food), orNA(e.Review), FormatRating(e.Rating))
}

// Field returns the display value of a named field.
func (e Entry) Field(name string) string {
	switch name {
	case "date":
		return e.Date
	case "restaurant":
		return e.Restaurant
	case "location":
		return e.Location
	case "food":
		return e.Food
	case "review":
		return e.Review
	case "rating":
		return FormatRating(e.Rating)
	}
	return ""
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
