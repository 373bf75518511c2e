package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdata/internal/sheets"
	"github.com/desertthunder/songdata/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ConfirmView ViewState = iota
	RunView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	engine *tasks.EnrichEngine
	ws     sheets.Worksheet
	opts   tasks.EnrichOptions

	width  int
	height int
	bar    progress.Model

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.EnrichResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.EnrichEngine, ws sheets.Worksheet, opts tasks.EnrichOptions) *Model {
	return &Model{
		ctx:    ctx,
		view:   ConfirmView,
		engine: engine,
		ws:     ws,
		opts:   opts,
		bar:    progress.New(progress.WithDefaultGradient()),
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Result returns the run outcome once the program has finished.
func (m *Model) Result() (*tasks.EnrichResult, error) {
	return m.result, m.err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(msg.Width-8, 60)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case RunView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case progressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.no):
		return m, tea.Quit
	case key.Matches(msg, m.keys.yes), key.Matches(msg, m.keys.enter):
		m.view = RunView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) || key.Matches(msg, m.keys.enter) {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Run(m.ctx, m.progressChan, m.ws, m.opts)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return runCompleteMsg{result: m.result, err: m.err}
		}
		return progressMsg(update)
	}
}

func (m *Model) renderConfirm() string {
	methods := m.opts.Methods
	if len(methods) == 0 {
		methods = tasks.DefaultMethods
	}

	title := styles.title.Render(fmt.Sprintf("Enrich '%s'?", m.ws.Title()))
	info := fmt.Sprintf("\nWorksheet: %s\nMethods: %s\n", m.ws.Title(), strings.Join(methods, ", "))
	if m.opts.StartRow > 0 {
		info += fmt.Sprintf("Start offset: %d\n", m.opts.StartRow)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Enriching Worksheet")

	var phase string
	switch m.progress.Phase {
	case tasks.PrepareHeaders:
		phase = "Checking required headers..."
	case tasks.ReadRows:
		phase = "Reading rows..."
	case tasks.EnrichRows:
		phase = fmt.Sprintf("Enriching rows (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.WriteRows:
		phase = "Writing rows back to the sheet..."
	default:
		phase = "Processing..."
	}

	bar := ""
	if m.progress.Phase == tasks.EnrichRows && m.progress.Total > 0 {
		bar = "\n" + m.bar.ViewAs(float64(m.progress.Step)/float64(m.progress.Total))
	}

	return fmt.Sprintf("%s\n\n%s%s\n%s", title, phase, bar, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Run failed: %v\n\nPress q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	title := styles.ok.Render("✓ Run Complete!")
	info := fmt.Sprintf(
		"\nProcessed: %d\nUpdated: %d\nSkipped: %d\n",
		m.result.RowsProcessed,
		m.result.RowsUpdated,
		m.result.RowsSkipped,
	)

	var methods string
	if len(m.result.MethodUpdates) > 0 {
		var lines []string
		for _, method := range tasks.DefaultMethods {
			if count, ok := m.result.MethodUpdates[method]; ok {
				lines = append(lines, fmt.Sprintf("  %s: %d", method, count))
			}
		}
		methods = "\nUpdates by method:\n" + strings.Join(lines, "\n") + "\n"
	}

	var warn string
	if !m.result.Updated() {
		warn = "\n" + styles.warn.Render("Nothing was updated.")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n%s%s%s\n\n%s", title, info, methods, warn, helpView)
}
