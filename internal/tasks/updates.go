package tasks

import "fmt"

// ProgressUpdate represents a progress event during an enrichment run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	PrepareHeaders Phase = iota
	ReadRows
	EnrichRows
	WriteRows
	Done
)

func (p Phase) String() string {
	switch p {
	case PrepareHeaders:
		return "prepare_headers"
	case ReadRows:
		return "read_rows"
	case EnrichRows:
		return "enrich_rows"
	case WriteRows:
		return "write_rows"
	case Done:
		return "done"
	default:
		return ""
	}
}

func prepareHeadersUpdate(title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PrepareHeaders,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Checking required headers on %s...", title),
	}
}

func readRowsUpdate(title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadRows,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Reading rows from %s...", title),
	}
}

func foundRowsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadRows,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d rows to process", count),
		Data:    count,
	}
}

func enrichRowUpdate(step, total int, artist, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichRows,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, artist, title),
	}
}

func writeRowsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteRows,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %d rows back to the sheet...", count),
	}
}

func doneUpdate(result *EnrichResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Done: %d of %d rows updated", result.RowsUpdated, result.RowsProcessed),
		Data:    result,
	}
}
