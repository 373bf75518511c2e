package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdata/internal/tasks"
)

// progressMsg carries one engine progress update into the Elm loop.
type progressMsg tasks.ProgressUpdate

// runCompleteMsg signals that the enrichment goroutine has finished.
type runCompleteMsg struct {
	result *tasks.EnrichResult
	err    error
}

var (
	_ tea.Msg = progressMsg{}
	_ tea.Msg = runCompleteMsg{}
)
