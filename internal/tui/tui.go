// Package tui provides a Bubble Tea terminal user interface for cleantags.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/handiism/cleantags/internal/config"
	"github.com/handiism/cleantags/internal/model"
	"github.com/handiism/cleantags/internal/pipeline"
	"github.com/handiism/cleantags/internal/tags"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// maxLogs is the number of progress messages kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   model.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	codec     tags.Codec
	logger    *zap.Logger
	logs      []LogEntry
	err       error

	// Scan context
	ctx    context.Context
	cancel context.CancelFunc

	manager *pipeline.Manager
	events  chan model.ProgressEvent
	report  *model.Report
	counts  pipeline.Progress

	// Options
	writeMode bool
	verbose   bool

	width  int
	height int
}

// NewModel creates a new TUI model.
//
// The model starts in dry-run or write mode as configured in settings.
// If codec is nil, tags.DefaultRegistry() is used. If logger is nil,
// logging is disabled.
func NewModel(settings *config.Settings, codec tags.Codec, logger *zap.Logger) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if codec == nil {
		codec = tags.DefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "/path/to/music"
	if wd, err := os.Getwd(); err == nil {
		ti.SetValue(wd)
	}
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		codec:     codec,
		logger:    logger,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		writeMode: !settings.DryRun,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries a per-file progress event from the tagger.
	ProgressMsg struct {
		Event model.ProgressEvent
	}

	// ScanDoneMsg is sent when the run returns.
	ScanDoneMsg struct {
		Report *model.Report
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateScanning {
				// The run returns with the cancellation error; ScanDoneMsg
				// moves the UI to the error state.
				m.cancel()
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateScanning
				cmd := tea.Batch(m.startScan(), m.spinner.Tick, m.tickProgress())
				return m, cmd
			}

		case "tab":
			if m.state == StateInput {
				m.writeMode = !m.writeMode
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.report = nil
				m.counts = pipeline.Progress{}
				m.manager = nil
				m.events = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.Focus()
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != model.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			if len(m.logs) > maxLogs {
				m.logs = m.logs[len(m.logs)-maxLogs:]
			}
		}
		cmds = append(cmds, waitForEvent(m.events))

	case ScanDoneMsg:
		m.report = msg.Report
		if m.manager != nil {
			m.counts = m.manager.Progress()
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateScanning {
			m.counts = m.manager.Progress()

			var percent float64
			if m.counts.Discovered > 0 {
				percent = float64(m.counts.Processed) / float64(m.counts.Discovered)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("cleantags"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Fix duplicated \"X / X\" tag values"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.viewScanning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Music directory:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Write fixes to files (tab)\n", checkbox(m.writeMode)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+t)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Extensions: %s", strings.Join(m.settings.Extensions, ", "))))
	b.WriteString("\n")
	if !m.writeMode {
		b.WriteString(dimStyle.Render("Dry run: no file will be modified"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Scanning %s...", m.textInput.Value())))
	b.WriteString("\n\n")

	var percent float64
	if m.counts.Discovered > 0 {
		percent = float64(m.counts.Processed) / float64(m.counts.Discovered)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	verb := "Fixed"
	if !m.writeMode {
		verb = "Would fix"
	}
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | %s: %d | Failed: %d",
		m.counts.Processed,
		m.counts.Discovered,
		verb,
		m.counts.Fixed,
		m.counts.Failed,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	title := "Scan Complete!"
	verb := "Fixed"
	if m.report != nil && m.report.DryRun {
		title = "Dry Run Complete!"
		verb = "Would fix"
	}

	var files, affected, fields, failed int
	var duration time.Duration
	if m.report != nil {
		files = m.report.Processed()
		affected = len(m.report.Affected())
		fields = m.report.FieldsFixed()
		failed = m.report.Failures()
		duration = m.report.Duration().Round(time.Millisecond)
	}

	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Files: %d\n"+
			"%s: %d field(s) in %d file(s)\n"+
			"Failed: %d\n"+
			"Time: %s",
		title,
		files,
		verb,
		fields,
		affected,
		failed,
		duration,
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case model.LevelError:
			style = errorStyle
			prefix = "✗"
		case model.LevelWarning:
			style = warningStyle
			prefix = "!"
		case model.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case model.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: write mode • ctrl+t: verbose • esc: quit"
	case StateScanning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new scan • q: quit"
	}
	return ""
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

// startScan creates the manager and runs the scan in the background.
func (m *Model) startScan() tea.Cmd {
	root := filepath.Clean(strings.TrimSpace(m.textInput.Value()))

	settings := *m.settings
	settings.DryRun = !m.writeMode

	events := make(chan model.ProgressEvent, 256)
	manager := pipeline.NewManager(&settings, m.codec, m.logger)
	manager.OnProgress(func(event model.ProgressEvent) {
		select {
		case events <- event:
		default:
			// The UI is behind; the counters still advance.
		}
	})

	m.manager = manager
	m.events = events
	ctx := m.ctx

	run := func() tea.Msg {
		report, err := manager.Run(ctx, root)
		close(events)
		return ScanDoneMsg{Report: report, Err: err}
	}
	return tea.Batch(run, waitForEvent(events))
}

// waitForEvent returns a command delivering the next progress event.
func waitForEvent(events <-chan model.ProgressEvent) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(settings, nil, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
