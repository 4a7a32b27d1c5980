// ABOUTME: MCP tool implementations for review entry operations.
// ABOUTME: Registers add_entry, list_entries, find_entry, search_entries, edit_entry, delete_entry.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/tastelog/internal/models"
	"github.com/2389-research/tastelog/internal/storage"
)

const entryProperties = `
				"date": {"type": "string", "description": "Date of the meal, suggested format DD/MM/YY"},
				"restaurant": {"type": "string", "description": "Restaurant name"},
				"location": {"type": "string", "description": "Restaurant location"},
				"food": {"type": "string", "description": "Dish eaten"},
				"review": {"type": "string", "description": "Free-text review"},
				"rating": {"type": ["number", "string"], "description": "Numeric rating, usually 1 to 5"}`

func (s *Server) registerReviewTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "add_entry",
		Description: "Record a restaurant review. Restaurant, location and food are stored lowercase. Rating must be numeric.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {` + entryProperties + `
			},
			"required": ["rating"]
		}`),
	}, s.handleAddEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_entries",
		Description: "List every recorded review in insertion order, with its index.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "number", "description": "Maximum number of entries to return (default: all)"}
			}
		}`),
	}, s.handleListEntries)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "find_entry",
		Description: "Find the first review for a restaurant, location and food. Matching is case-insensitive.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"restaurant": {"type": "string", "description": "Restaurant name"},
				"location": {"type": "string", "description": "Restaurant location"},
				"food": {"type": "string", "description": "Dish eaten"}
			},
			"required": ["restaurant", "location", "food"]
		}`),
	}, s.handleFindEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "search_entries",
		Description: "Search reviews by food, optionally narrowed by location or restaurant (not both). Matching is case-insensitive and exact.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"food": {"type": "string", "description": "Dish to search for"},
				"location": {"type": "string", "description": "Only reviews at this location"},
				"restaurant": {"type": "string", "description": "Only reviews at this restaurant"}
			},
			"required": ["food"]
		}`),
	}, s.handleSearchEntries)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "edit_entry",
		Description: "Edit the first review matching restaurant, location and food. Date, review and rating are replaced; omitted fields keep their current value.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"restaurant": {"type": "string", "description": "Restaurant of the review to edit"},
				"location": {"type": "string", "description": "Location of the review to edit"},
				"food": {"type": "string", "description": "Food of the review to edit"},
				"date": {"type": "string", "description": "New date"},
				"review": {"type": "string", "description": "New review text"},
				"rating": {"type": ["number", "string"], "description": "New rating"}
			},
			"required": ["restaurant", "location", "food"]
		}`),
	}, s.handleEditEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "delete_entry",
		Description: "Delete a review. Pass food and restaurant to pick from matches by position, or the full entry to delete the first identical one.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {` + entryProperties + `,
				"index": {"type": "number", "description": "Position among food+restaurant matches (default 0)"}
			},
			"required": ["food", "restaurant"]
		}`),
	}, s.handleDeleteEntry)
}

// entryArgs is the common argument shape for tools that take a whole entry.
type entryArgs struct {
	Date       string          `json:"date"`
	Restaurant string          `json:"restaurant"`
	Location   string          `json:"location"`
	Food       string          `json:"food"`
	Review     string          `json:"review"`
	Rating     json.RawMessage `json:"rating"`
}

func (a entryArgs) input() (models.EntryInput, error) {
	rating, err := ratingText(a.Rating)
	if err != nil {
		return models.EntryInput{}, err
	}
	return models.EntryInput{
		Date:       a.Date,
		Restaurant: a.Restaurant,
		Location:   a.Location,
		Food:       a.Food,
		Review:     a.Review,
		Rating:     rating,
	}, nil
}

// ratingText accepts a JSON number or string and returns the text the store
// parses. An absent rating yields "".
func ratingText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err != nil {
		return "", fmt.Errorf("rating must be a number or string")
	}
	return strconv.FormatFloat(num, 'f', -1, 64), nil
}

func (s *Server) handleAddEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args entryArgs
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	in, err := args.input()
	if err != nil {
		return toolError("%v", err), nil
	}

	entries, err := s.store.Append(in)
	if err != nil {
		return storeError("failed to add entry", err), nil
	}

	added := entries[len(entries)-1]
	s.log.Info().Str("tool", "add_entry").Int("count", len(entries)).Msg("entry added")

	return textResult(fmt.Sprintf("Entry added (index %d):\n%s", len(entries)-1, added.Summary())), nil
}

func (s *Server) handleListEntries(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Limit int `json:"limit"`
	}
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return toolError("invalid arguments: %v", err), nil
		}
	}

	entries, err := s.store.Load()
	if err != nil {
		return storeError("failed to load entries", err), nil
	}

	if len(entries) == 0 {
		return textResult("No entries recorded."), nil
	}

	shown := entries
	if args.Limit > 0 && args.Limit < len(entries) {
		shown = entries[:args.Limit]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d entries:\n", len(entries))
	for i, e := range shown {
		fmt.Fprintf(&sb, "\n[%d]\n%s\n", i, e.Summary())
	}
	return textResult(sb.String()), nil
}

func (s *Server) handleFindEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Restaurant string `json:"restaurant"`
		Location   string `json:"location"`
		Food       string `json:"food"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	idx, found, err := s.store.FindByKey(
		models.NormalizeQuery(args.Restaurant),
		models.NormalizeQuery(args.Location),
		models.NormalizeQuery(args.Food),
	)
	if err != nil {
		return storeError("failed to search entries", err), nil
	}
	if !found {
		return textResult("No matching entry."), nil
	}

	entries, err := s.store.Load()
	if err != nil {
		return storeError("failed to load entries", err), nil
	}
	if idx >= len(entries) {
		return toolError("entry moved while reading, try again"), nil
	}
	return textResult(fmt.Sprintf("Found at index %d:\n%s", idx, entries[idx].Summary())), nil
}

func (s *Server) handleSearchEntries(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Food       string `json:"food"`
		Location   string `json:"location"`
		Restaurant string `json:"restaurant"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	food := models.NormalizeQuery(args.Food)
	location := models.NormalizeQuery(args.Location)
	restaurant := models.NormalizeQuery(args.Restaurant)

	if food == "" {
		return toolError("food is required"), nil
	}
	if location != "" && restaurant != "" {
		return toolError("pass location or restaurant, not both"), nil
	}

	var (
		matches []models.Entry
		err     error
	)
	switch {
	case location != "":
		matches, err = s.store.FilterByFoodAndLocation(food, location)
	case restaurant != "":
		matches, err = s.store.FilterByFoodAndRestaurant(food, restaurant)
	default:
		matches, err = s.store.FilterByFood(food)
	}
	if err != nil {
		return storeError("failed to search entries", err), nil
	}

	if len(matches) == 0 {
		return textResult("No matching entries."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d matching entries:\n", len(matches))
	for i, e := range matches {
		fmt.Fprintf(&sb, "\n[%d]\n%s\n", i, e.Summary())
	}
	return textResult(sb.String()), nil
}

func (s *Server) handleEditEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Restaurant string          `json:"restaurant"`
		Location   string          `json:"location"`
		Food       string          `json:"food"`
		Date       *string         `json:"date"`
		Review     *string         `json:"review"`
		Rating     json.RawMessage `json:"rating"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	idx, found, err := s.store.FindByKey(
		models.NormalizeQuery(args.Restaurant),
		models.NormalizeQuery(args.Location),
		models.NormalizeQuery(args.Food),
	)
	if err != nil {
		return storeError("failed to search entries", err), nil
	}
	if !found {
		return toolError("no entry for restaurant %q, location %q, food %q", args.Restaurant, args.Location, args.Food), nil
	}

	entries, err := s.store.Load()
	if err != nil {
		return storeError("failed to load entries", err), nil
	}
	if idx >= len(entries) {
		return toolError("entry moved while editing, try again"), nil
	}

	in := entries[idx].Input()
	if args.Date != nil {
		in.Date = *args.Date
	}
	if args.Review != nil {
		in.Review = *args.Review
	}
	if len(args.Rating) > 0 {
		rating, err := ratingText(args.Rating)
		if err != nil {
			return toolError("%v", err), nil
		}
		in.Rating = rating
	}

	entries, err = s.store.ReplaceAt(idx, in)
	if err != nil {
		return storeError("failed to edit entry", err), nil
	}

	s.log.Info().Str("tool", "edit_entry").Int("index", idx).Msg("entry edited")
	return textResult(fmt.Sprintf("Entry updated (index %d):\n%s", idx, entries[idx].Summary())), nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		entryArgs
		Index *int `json:"index"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	target, err := s.deleteTarget(args.entryArgs, args.Index)
	if err != nil {
		return toolError("%v", err), nil
	}

	_, removed, err := s.store.RemoveByEquality(target)
	if err != nil {
		return storeError("failed to delete entry", err), nil
	}
	if !removed {
		return textResult("No identical entry found; nothing deleted."), nil
	}

	s.log.Info().Str("tool", "delete_entry").Msg("entry deleted")
	return textResult(fmt.Sprintf("Entry deleted:\n%s", target.Summary())), nil
}

// deleteTarget resolves the entry to remove. With a rating the arguments
// are the entry itself; otherwise it is picked from food+restaurant matches.
func (s *Server) deleteTarget(args entryArgs, index *int) (models.Entry, error) {
	if len(args.Rating) > 0 && index == nil {
		text, err := ratingText(args.Rating)
		if err != nil {
			return models.Entry{}, err
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return models.Entry{}, fmt.Errorf("rating must be numeric")
		}
		return models.Entry{
			Date:       args.Date,
			Restaurant: models.NormalizeKey(args.Restaurant),
			Location:   models.NormalizeKey(args.Location),
			Food:       models.NormalizeKey(args.Food),
			Review:     args.Review,
			Rating:     rating,
		}, nil
	}

	matches, err := s.store.FilterByFoodAndRestaurant(
		models.NormalizeQuery(args.Food),
		models.NormalizeQuery(args.Restaurant),
	)
	if err != nil {
		return models.Entry{}, err
	}
	if len(matches) == 0 {
		return models.Entry{}, fmt.Errorf("no entries for food %q at restaurant %q", args.Food, args.Restaurant)
	}
	i := 0
	if index != nil {
		i = *index
	}
	if i < 0 || i >= len(matches) {
		return models.Entry{}, fmt.Errorf("index %d out of range for %d matches", i, len(matches))
	}
	return matches[i], nil
}

func textResult(text string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}
}

// storeError renders store failures, spelling out the ones a user can act on.
func storeError(action string, err error) *gomcp.CallToolResult {
	var corrupt *storage.CorruptStoreError
	if errors.As(err, &corrupt) {
		return toolError("%s: store file %s is unreadable; fix or move it aside", action, corrupt.Path)
	}
	var invalid *storage.InvalidFieldError
	if errors.As(err, &invalid) {
		return toolError("%s: %s %v", action, invalid.Field, invalid.Err)
	}
	return toolError("%s: %v", action, err)
}

func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
