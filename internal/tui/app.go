// ABOUTME: Interactive review tracker TUI built on bubbletea.
// ABOUTME: Home menu plus add, view, search, edit and delete screens over a ReviewStore.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/2389-research/tastelog/internal/logging"
	"github.com/2389-research/tastelog/internal/models"
	"github.com/2389-research/tastelog/internal/storage"
)

// Screen identifies the active screen.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenAdd
	ScreenView
	ScreenSearchFoodLocation
	ScreenSearchFood
	ScreenEdit
	ScreenDelete
)

type menuItem struct {
	label  string
	screen Screen
}

var menu = []menuItem{
	{"Add an entry", ScreenAdd},
	{"View all entries", ScreenView},
	{"Search by food and location", ScreenSearchFoodLocation},
	{"Search by food", ScreenSearchFood},
	{"Edit an entry", ScreenEdit},
	{"Delete an entry", ScreenDelete},
}

var titles = map[Screen]string{
	ScreenAdd:                "Add an entry",
	ScreenView:               "All entries",
	ScreenSearchFoodLocation: "Search by food and location",
	ScreenSearchFood:         "Search by food",
	ScreenEdit:               "Edit an entry",
	ScreenDelete:             "Delete an entry",
}

var (
	errNoMatch  = errors.New("no entry matches that restaurant, location and food")
	errNoResult = errors.New("no entries match that food and restaurant")
	errGone     = errors.New("that entry is no longer in the store; search again")
)

// storeChangedMsg reports that the store file changed on disk.
type storeChangedMsg struct{}

// App is the bubbletea model for the review tracker.
type App struct {
	store   storage.ReviewStore
	changes <-chan struct{}
	log     zerolog.Logger

	screen   Screen
	cursor   int
	form     form
	phase    int
	searched bool
	results  []models.Entry
	selected int

	editIndex int
	editing   models.Entry

	entries  []models.Entry
	viewport viewport.Model

	status   string
	err      error
	quitting bool
}

// AppOption configures an App.
type AppOption func(*App)

// WithChanges makes the view screen reload whenever ch delivers.
func WithChanges(ch <-chan struct{}) AppOption {
	return func(a *App) {
		a.changes = ch
	}
}

// NewApp creates the TUI model for store.
func NewApp(store storage.ReviewStore, opts ...AppOption) App {
	a := App{
		store:    store,
		log:      logging.Component("tui"),
		screen:   ScreenHome,
		viewport: viewport.New(80, 20),
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// Init implements tea.Model.
func (m App) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Update implements tea.Model.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-6, 5)
		return m, nil

	case storeChangedMsg:
		if m.screen == ScreenView {
			m = m.loadView()
			m.log.Debug().Msg("store changed on disk, view reloaded")
		}
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEscape:
			if m.screen == ScreenHome {
				m.quitting = true
				return m, tea.Quit
			}
			return m.goHome(""), nil
		}

		switch m.screen {
		case ScreenHome:
			return m.updateHome(msg)
		case ScreenAdd:
			return m.updateAdd(msg)
		case ScreenView:
			return m.updateView(msg)
		case ScreenSearchFoodLocation, ScreenSearchFood:
			return m.updateSearch(msg)
		case ScreenEdit:
			return m.updateEdit(msg)
		case ScreenDelete:
			return m.updateDelete(msg)
		}
	}

	if m.screen != ScreenHome && m.screen != ScreenView {
		var cmd tea.Cmd
		m.form, cmd, _ = m.form.forward(msg)
		return m, cmd
	}
	return m, nil
}

func (m App) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(menu) {
			m.cursor++
		}
	case tea.KeyEnter:
		if m.cursor == len(menu) {
			m.quitting = true
			return m, tea.Quit
		}
		return m.open(menu[m.cursor].screen)
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return m, nil
		}
		r := msg.Runes[0]
		switch {
		case r == 'q':
			m.quitting = true
			return m, tea.Quit
		case r == 'k':
			return m.updateHome(tea.KeyMsg{Type: tea.KeyUp})
		case r == 'j':
			return m.updateHome(tea.KeyMsg{Type: tea.KeyDown})
		case r >= '1' && int(r-'1') < len(menu):
			m.cursor = int(r - '1')
			return m.open(menu[m.cursor].screen)
		}
	}
	return m, nil
}

// open switches to screen with fresh state.
func (m App) open(screen Screen) (tea.Model, tea.Cmd) {
	m.screen = screen
	m.status = ""
	m.err = nil
	m.phase = 0
	m.searched = false
	m.results = nil
	m.selected = 0

	switch screen {
	case ScreenAdd:
		m.form = newForm(
			field{label: "Date", placeholder: models.DateHint},
			field{label: "Restaurant"},
			field{label: "Location"},
			field{label: "Food"},
			field{label: "Review"},
			field{label: "Rating", placeholder: "1-5"},
		)
	case ScreenView:
		m.form = form{}
		return m.loadView(), nil
	case ScreenSearchFoodLocation:
		m.form = newForm(field{label: "Food"}, field{label: "Location"})
	case ScreenSearchFood:
		m.form = newForm(field{label: "Food"})
	case ScreenEdit:
		m.form = newForm(field{label: "Restaurant"}, field{label: "Location"}, field{label: "Food"})
	case ScreenDelete:
		m.form = newForm(field{label: "Food"}, field{label: "Restaurant"})
	}
	return m, textinput.Blink
}

func (m App) goHome(status string) App {
	m.screen = ScreenHome
	m.form = form{}
	m.status = status
	m.err = nil
	m.results = nil
	return m
}

func (m App) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		cmd       tea.Cmd
		submitted bool
	)
	m.form, cmd, submitted = m.form.update(msg)
	if !submitted {
		return m, cmd
	}

	in := models.EntryInput{
		Date:       m.form.value(0),
		Restaurant: m.form.value(1),
		Location:   m.form.value(2),
		Food:       m.form.value(3),
		Review:     m.form.value(4),
		Rating:     m.form.value(5),
	}
	entries, err := m.store.Append(in)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.log.Info().Int("count", len(entries)).Msg("entry added")
	return m.goHome("Entry added."), nil
}

func (m App) loadView() App {
	entries, err := m.store.Load()
	m.err = err
	m.entries = entries
	m.viewport.SetContent(renderEntries(entries, -1))
	return m
}

func (m App) updateView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes && string(msg.Runes) == "r" {
		return m.loadView(), nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		cmd       tea.Cmd
		submitted bool
	)
	m.form, cmd, submitted = m.form.update(msg)
	if !submitted {
		return m, cmd
	}

	food := models.NormalizeQuery(m.form.value(0))
	if m.screen == ScreenSearchFoodLocation {
		location := models.NormalizeQuery(m.form.value(1))
		m.results, m.err = m.store.FilterByFoodAndLocation(food, location)
	} else {
		m.results, m.err = m.store.FilterByFood(food)
	}
	m.searched = m.err == nil
	return m, nil
}

func (m App) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		cmd       tea.Cmd
		submitted bool
	)
	m.form, cmd, submitted = m.form.update(msg)
	if !submitted {
		return m, cmd
	}

	if m.phase == 0 {
		idx, found, err := m.store.FindByKey(
			models.NormalizeQuery(m.form.value(0)),
			models.NormalizeQuery(m.form.value(1)),
			models.NormalizeQuery(m.form.value(2)),
		)
		if err != nil {
			m.err = err
			return m, nil
		}
		if !found {
			m.err = errNoMatch
			return m, nil
		}
		entries, err := m.store.Load()
		if err != nil {
			m.err = err
			return m, nil
		}
		if idx >= len(entries) {
			m.err = errGone
			return m, nil
		}
		m.editIndex = idx
		m.editing = entries[idx]
		m.phase = 1
		m.err = nil
		in := m.editing.Input()
		m.form = newForm(
			field{label: "Date", placeholder: models.DateHint, value: in.Date},
			field{label: "Review", value: in.Review},
			field{label: "Rating", placeholder: "1-5", value: in.Rating},
		)
		return m, textinput.Blink
	}

	in := m.editing.Input()
	in.Date = m.form.value(0)
	in.Review = m.form.value(1)
	in.Rating = m.form.value(2)
	if _, err := m.store.ReplaceAt(m.editIndex, in); err != nil {
		m.err = err
		return m, nil
	}
	m.log.Info().Int("index", m.editIndex).Msg("entry edited")
	return m.goHome("Entry updated."), nil
}

func (m App) updateDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.phase == 1 {
		return m.updateDeleteSelect(msg)
	}

	var (
		cmd       tea.Cmd
		submitted bool
	)
	m.form, cmd, submitted = m.form.update(msg)
	if !submitted {
		return m, cmd
	}

	results, err := m.store.FilterByFoodAndRestaurant(
		models.NormalizeQuery(m.form.value(0)),
		models.NormalizeQuery(m.form.value(1)),
	)
	if err != nil {
		m.err = err
		return m, nil
	}
	if len(results) == 0 {
		m.err = errNoResult
		return m, nil
	}
	m.err = nil
	m.results = results
	m.selected = 0
	m.phase = 1
	m.form = m.form.blur()
	return m, nil
}

func (m App) updateDeleteSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > 0 {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < len(m.results)-1 {
			m.selected++
		}
	case tea.KeyEnter:
		_, removed, err := m.store.RemoveByEquality(m.results[m.selected])
		if err != nil {
			m.err = err
			return m, nil
		}
		if !removed {
			m.err = errGone
			return m, nil
		}
		m.log.Info().Msg("entry deleted")
		return m.goHome("Entry deleted."), nil
	}
	return m, nil
}

// errorText renders store errors as messages a user can act on.
func errorText(err error) string {
	var corrupt *storage.CorruptStoreError
	if errors.As(err, &corrupt) {
		return fmt.Sprintf("The store file %s cannot be read. Fix or move it aside, then try again.", corrupt.Path)
	}
	var invalid *storage.InvalidFieldError
	if errors.As(err, &invalid) && invalid.Field != "" {
		return fmt.Sprintf("%s%s %v.", strings.ToUpper(invalid.Field[:1]), invalid.Field[1:], invalid.Err)
	}
	return err.Error()
}

func renderEntries(entries []models.Entry, selected int) string {
	if len(entries) == 0 {
		return promptStyle.Render("No entries yet.")
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		if i == selected {
			parts[i] = selectedStyle.Render(e.Summary())
		} else {
			parts[i] = entryStyle.Render(e.Summary())
		}
	}
	return strings.Join(parts, "\n\n")
}

// View implements tea.Model.
func (m App) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   TASTELOG"))
	if title, ok := titles[m.screen]; ok {
		b.WriteString(titleStyle.Render(" - " + title))
	}
	b.WriteString("\n\n")

	switch m.screen {
	case ScreenHome:
		for i, item := range menu {
			m.writeMenuItem(&b, i, fmt.Sprintf("%d. %s", i+1, item.label))
		}
		m.writeMenuItem(&b, len(menu), "q. Quit")
		if m.status != "" {
			b.WriteString("\n")
			b.WriteString(successStyle.Render(m.status))
			b.WriteString("\n")
		}

	case ScreenView:
		fmt.Fprintf(&b, "%s\n\n", stepStyle.Render(fmt.Sprintf("%d entries", len(m.entries))))
		b.WriteString(m.viewport.View())
		b.WriteString("\n")

	case ScreenSearchFoodLocation, ScreenSearchFood:
		b.WriteString(m.form.View())
		if m.searched {
			b.WriteString("\n")
			if m.screen == ScreenSearchFood {
				b.WriteString(stepStyle.Render(fmt.Sprintf("Found %d entries", len(m.results))))
				b.WriteString("\n\n")
			}
			if len(m.results) == 0 {
				b.WriteString(promptStyle.Render("No matching entries."))
			} else {
				b.WriteString(renderEntries(m.results, -1))
			}
			b.WriteString("\n")
		}

	case ScreenEdit:
		if m.phase == 1 {
			fmt.Fprintf(&b, "  Restaurant: %s\n  Location: %s\n  Food: %s\n\n",
				m.editing.Restaurant, m.editing.Location, m.editing.Food)
		}
		b.WriteString(m.form.View())

	case ScreenDelete:
		if m.phase == 1 {
			b.WriteString(stepStyle.Render("Select the entry to delete"))
			b.WriteString("\n\n")
			b.WriteString(renderEntries(m.results, m.selected))
			b.WriteString("\n")
		} else {
			b.WriteString(m.form.View())
		}

	default:
		b.WriteString(m.form.View())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + errorText(m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(promptStyle.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m App) writeMenuItem(b *strings.Builder, i int, label string) {
	if i == m.cursor {
		b.WriteString(focusStyle.Render("> " + label))
	} else {
		b.WriteString("  " + label)
	}
	b.WriteString("\n")
}

func (m App) help() string {
	switch {
	case m.screen == ScreenHome:
		return "↑/↓ move  enter select  1-6 jump  q quit"
	case m.screen == ScreenView:
		return "↑/↓ scroll  r reload  esc back"
	case m.screen == ScreenDelete && m.phase == 1:
		return "↑/↓ choose  enter delete  esc back"
	}
	return "tab next field  enter submit  esc back"
}

// Screen returns the active screen.
func (m App) Screen() Screen {
	return m.screen
}
