// ABOUTME: CLI commands for review entries.
// ABOUTME: Provides add, list, find, search, edit and delete over the review store.
package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/2389-research/tastelog/internal/export"
	"github.com/2389-research/tastelog/internal/models"
	"github.com/2389-research/tastelog/internal/storage"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a review",
	Long:  "Record a review. Restaurant, location and food are stored lowercase.",
	RunE:  runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all reviews",
	Long:  "List every review in the order it was recorded.",
	RunE:  runList,
}

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find a review by restaurant, location and food",
	Long:  "Show the first review whose restaurant, location and food match, ignoring case.",
	RunE:  runFind,
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search reviews by food",
	Long:  "Search reviews by food, optionally narrowed to one location or one restaurant.",
	RunE:  runSearch,
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a review",
	Long: `Edit the first review matching --restaurant, --location and --food.
Only --date, --review and --rating can change; omitted flags keep their value.`,
	RunE: runEdit,
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a review",
	Long: `Delete a review found by --food and --restaurant.
When several reviews match, pass --index to pick one from the listed matches.`,
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(addCmd, listCmd, findCmd, searchCmd, editCmd, deleteCmd)

	addCmd.Flags().String("date", "", "Date of the meal ("+models.DateHint+")")
	addCmd.Flags().String("restaurant", "", "Restaurant name")
	addCmd.Flags().String("location", "", "Restaurant location")
	addCmd.Flags().String("food", "", "Dish eaten")
	addCmd.Flags().String("review", "", "Review text")
	addCmd.Flags().String("rating", "", "Numeric rating, usually 1-5")
	_ = addCmd.MarkFlagRequired("rating")

	listCmd.Flags().Int("limit", 0, "Maximum number of entries to show (0 for all)")
	listCmd.Flags().Bool("pretty", false, "Render as a formatted table")

	for _, c := range []*cobra.Command{findCmd, editCmd} {
		c.Flags().String("restaurant", "", "Restaurant name")
		c.Flags().String("location", "", "Restaurant location")
		c.Flags().String("food", "", "Dish eaten")
		_ = c.MarkFlagRequired("restaurant")
		_ = c.MarkFlagRequired("location")
		_ = c.MarkFlagRequired("food")
	}
	editCmd.Flags().String("date", "", "New date")
	editCmd.Flags().String("review", "", "New review text")
	editCmd.Flags().String("rating", "", "New rating")

	searchCmd.Flags().String("food", "", "Dish to search for")
	searchCmd.Flags().String("location", "", "Only reviews at this location")
	searchCmd.Flags().String("restaurant", "", "Only reviews at this restaurant")
	_ = searchCmd.MarkFlagRequired("food")
	searchCmd.MarkFlagsMutuallyExclusive("location", "restaurant")

	deleteCmd.Flags().String("food", "", "Dish of the review to delete")
	deleteCmd.Flags().String("restaurant", "", "Restaurant of the review to delete")
	deleteCmd.Flags().Int("index", -1, "Which match to delete, as numbered in the listing")
	_ = deleteCmd.MarkFlagRequired("food")
	_ = deleteCmd.MarkFlagRequired("restaurant")
}

// stringFlag returns a string flag registered on cmd, or "" if it has none.
func stringFlag(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

// entryKey reads the restaurant, location and food flags as queries.
func entryKey(cmd *cobra.Command) (restaurant, location, food string) {
	return models.NormalizeQuery(stringFlag(cmd, "restaurant")),
		models.NormalizeQuery(stringFlag(cmd, "location")),
		models.NormalizeQuery(stringFlag(cmd, "food"))
}

func runAdd(cmd *cobra.Command, args []string) error {
	entries, err := globalStore.Append(models.EntryInput{
		Date:       stringFlag(cmd, "date"),
		Restaurant: stringFlag(cmd, "restaurant"),
		Location:   stringFlag(cmd, "location"),
		Food:       stringFlag(cmd, "food"),
		Review:     stringFlag(cmd, "review"),
		Rating:     stringFlag(cmd, "rating"),
	})
	if err != nil {
		return describe("failed to add entry", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Entry added.")
	fmt.Fprintln(out, entries[len(entries)-1].Summary())
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	entries, err := globalStore.Load()
	if err != nil {
		return describe("failed to load entries", err)
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries recorded.")
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	pretty, _ := cmd.Flags().GetBool("pretty")

	shown := entries
	if limit > 0 && limit < len(entries) {
		shown = entries[:limit]
	}

	if pretty {
		return renderPretty(out, shown)
	}
	printEntries(out, shown)
	if len(shown) < len(entries) {
		fmt.Fprintf(out, "\n(%d of %d entries shown)\n", len(shown), len(entries))
	}
	return nil
}

func renderPretty(out io.Writer, entries []models.Entry) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	rendered, err := r.Render(export.MarkdownTable(entries))
	if err != nil {
		return fmt.Errorf("failed to render entries: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}

func printEntries(out io.Writer, entries []models.Entry) {
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "[%d]\n%s\n", i, e.Summary())
	}
}

func runFind(cmd *cobra.Command, args []string) error {
	idx, found, err := globalStore.FindByKey(entryKey(cmd))
	if err != nil {
		return describe("failed to search entries", err)
	}

	out := cmd.OutOrStdout()
	if !found {
		fmt.Fprintln(out, "No matching entry.")
		return nil
	}
	entries, err := globalStore.Load()
	if err != nil {
		return describe("failed to load entries", err)
	}
	if idx >= len(entries) {
		return fmt.Errorf("entry moved while reading, try again")
	}
	fmt.Fprintf(out, "Found at index %d:\n%s\n", idx, entries[idx].Summary())
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	restaurant, location, food := entryKey(cmd)

	var (
		matches []models.Entry
		err     error
	)
	switch {
	case location != "":
		matches, err = globalStore.FilterByFoodAndLocation(food, location)
	case restaurant != "":
		matches, err = globalStore.FilterByFoodAndRestaurant(food, restaurant)
	default:
		matches, err = globalStore.FilterByFood(food)
	}
	if err != nil {
		return describe("failed to search entries", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Found %d entries.\n", len(matches))
	if len(matches) > 0 {
		fmt.Fprintln(out)
		printEntries(out, matches)
	}
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	restaurant, location, food := entryKey(cmd)
	idx, found, err := globalStore.FindByKey(restaurant, location, food)
	if err != nil {
		return describe("failed to search entries", err)
	}
	if !found {
		return fmt.Errorf("no entry for restaurant %q, location %q, food %q", restaurant, location, food)
	}

	entries, err := globalStore.Load()
	if err != nil {
		return describe("failed to load entries", err)
	}
	if idx >= len(entries) {
		return fmt.Errorf("entry moved while editing, try again")
	}

	in := entries[idx].Input()
	if cmd.Flags().Changed("date") {
		in.Date = stringFlag(cmd, "date")
	}
	if cmd.Flags().Changed("review") {
		in.Review = stringFlag(cmd, "review")
	}
	if cmd.Flags().Changed("rating") {
		in.Rating = stringFlag(cmd, "rating")
	}

	entries, err = globalStore.ReplaceAt(idx, in)
	if err != nil {
		return describe("failed to edit entry", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Entry updated.")
	fmt.Fprintln(out, entries[idx].Summary())
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	restaurant, _, food := entryKey(cmd)
	matches, err := globalStore.FilterByFoodAndRestaurant(food, restaurant)
	if err != nil {
		return describe("failed to search entries", err)
	}

	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintln(out, "No matching entries.")
		return nil
	}

	idx, _ := cmd.Flags().GetInt("index")
	if idx < 0 {
		if len(matches) > 1 {
			printEntries(out, matches)
			return fmt.Errorf("%d entries match; pass --index to choose one", len(matches))
		}
		idx = 0
	}
	if idx >= len(matches) {
		return fmt.Errorf("index %d out of range for %d matches", idx, len(matches))
	}

	target := matches[idx]
	_, removed, err := globalStore.RemoveByEquality(target)
	if err != nil {
		return describe("failed to delete entry", err)
	}
	if !removed {
		return fmt.Errorf("entry changed on disk before it could be deleted; search again")
	}

	fmt.Fprintln(out, "Entry deleted.")
	fmt.Fprintln(out, target.Summary())
	return nil
}

// describe wraps store errors with guidance a user can act on.
func describe(action string, err error) error {
	var corrupt *storage.CorruptStoreError
	if errors.As(err, &corrupt) {
		return fmt.Errorf("%s: %w (run `tastelog check` for details)", action, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
