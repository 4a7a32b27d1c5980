// ABOUTME: Interactive TUI wizard for writing the tastelog config file.
// ABOUTME: 3-step bubbletea model collecting store path, strict ratings and log level.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/tastelog/internal/config"
)

// Step represents the current wizard step.
type Step int

const (
	StepStorePath Step = iota
	StepStrict
	StepLogLevel
	StepValidating
	StepDone
	StepFailed
)

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn is the function signature for store path validation.
type ValidateFn func(ctx context.Context, storePath string) error

// cancelHolder shares a cancel function across bubbletea model copies.
// This MUST be stored as a pointer field on SetupModel so that value-receiver
// methods (required by tea.Model) can store the cancel func and have it
// visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	inputs        [3]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	inputErr      string
	validationErr error
	quitting      bool
}

// NewSetupModel creates a new setup wizard model, pre-filled from cfg.
func NewSetupModel(cfg *config.Config) SetupModel {
	if cfg == nil {
		cfg = config.Default()
	}

	pathInput := textinput.New()
	pathInput.Placeholder = config.DefaultStorePath
	pathInput.Focus()
	pathInput.Width = 50
	pathInput.SetValue(cfg.Store.Path)

	strictInput := textinput.New()
	strictInput.Placeholder = "y/n"
	strictInput.Width = 10
	if cfg.Store.StrictRatings {
		strictInput.SetValue("y")
	}

	levelInput := textinput.New()
	levelInput.Placeholder = "warn"
	levelInput.Width = 10
	levelInput.SetValue(cfg.Log.Level)

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SetupModel{
		step:       StepStorePath,
		inputs:     [3]textinput.Model{pathInput, strictInput, levelInput},
		spinner:    s,
		validateFn: ValidateStorePath,
		cancelCtx:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepStorePath, StepStrict, StepLogLevel:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		idx := int(m.step)
		m.inputErr = ""

		switch m.step {
		case StepStorePath:
			if strings.TrimSpace(m.inputs[0].Value()) == "" {
				m.inputs[0].SetValue(config.DefaultStorePath)
			}
		case StepStrict:
			if _, ok := parseYesNo(m.inputs[1].Value()); !ok {
				m.inputErr = "answer y or n"
				return m, nil
			}
		case StepLogLevel:
			level := strings.ToLower(strings.TrimSpace(m.inputs[2].Value()))
			if level == "" {
				level = "warn"
			}
			if !isLogLevel(level) {
				m.inputErr = fmt.Sprintf("level must be one of %s", strings.Join(logLevels, ", "))
				return m, nil
			}
			m.inputs[2].SetValue(level)
		}

		m.inputs[idx].Blur()

		switch m.step {
		case StepStorePath:
			m.step = StepStrict
			m.inputs[1].Focus()
			return m, textinput.Blink
		case StepStrict:
			m.step = StepLogLevel
			m.inputs[2].Focus()
			return m, textinput.Blink
		case StepLogLevel:
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
	}

	// Forward to the active input
	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	storePath := m.inputs[0].Value()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, storePath)}
	}
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   TASTELOG"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Choose where your reviews are kept.\n\n")

	switch m.step {
	case StepStorePath:
		b.WriteString(stepStyle.Render("Step 1 of 3: Store file"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepStrict:
		b.WriteString(fmt.Sprintf("  Store file: %s\n\n", m.inputs[0].Value()))
		b.WriteString(stepStyle.Render("Step 2 of 3: Reject ratings outside 1-5?"))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepLogLevel:
		b.WriteString(fmt.Sprintf("  Store file: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Strict ratings: %s\n\n", yesNo(m.strict())))
		b.WriteString(stepStyle.Render("Step 3 of 3: Log level"))
		b.WriteString("\n")
		b.WriteString(m.inputs[2].View())
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("  Store file: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Strict ratings: %s\n", yesNo(m.strict())))
		b.WriteString(fmt.Sprintf("  Log level: %s\n\n", m.inputs[2].Value()))
		b.WriteString(m.spinner.View())
		b.WriteString(" Checking store file...")
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("✓ Saved!"))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Check failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	if m.inputErr != "" {
		b.WriteString(errorStyle.Render(m.inputErr))
		b.WriteString("\n")
	}

	return b.String()
}

func (m SetupModel) strict() bool {
	v, _ := parseYesNo(m.inputs[1].Value())
	return v
}

// Apply writes the entered values into cfg.
func (m SetupModel) Apply(cfg *config.Config) {
	cfg.Store.Path = m.inputs[0].Value()
	cfg.Store.StrictRatings = m.strict()
	cfg.Log.Level = m.inputs[2].Value()
}

// ShouldSave returns true if the wizard completed (via validation success or
// "save anyway") and the user did not cancel with Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}

// parseYesNo accepts y/n, yes/no and anything strconv.ParseBool does. Empty means no.
func parseYesNo(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return false, true
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return v, err == nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func isLogLevel(s string) bool {
	for _, l := range logLevels {
		if l == s {
			return true
		}
	}
	return false
}
