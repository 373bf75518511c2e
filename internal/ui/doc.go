// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a three-view workflow for an enrichment run:
//  1. [ConfirmView] : Review the worksheet, methods and offset before running
//  2. [RunView] : Monitor real-time progress with a per-row progress bar
//  3. [ResultView] : Display row and per-method update counts
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg types.
// Progress updates flow through a channel from the EnrichEngine, providing non-blocking status reporting during runs.
//
// Keyboard interaction uses y/n confirmation with contextual help displayed via charmbracelet/bubbles/help.
package ui
