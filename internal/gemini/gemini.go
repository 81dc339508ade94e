// Package gemini asks the Gemini generateContent REST endpoint to elaborate
// on a quote in one of four fixed modes.
package gemini

import (
	"context"
	"fmt"

	"github.com/sgoyal/quotidian/internal/quotes"
)

// Mode selects the elaboration style requested from the model.
type Mode string

const (
	ModeExplain   Mode = "explain"
	ModeContinue  Mode = "continue"
	ModeSummarize Mode = "summarize"
	ModeVisualize Mode = "visualize"
)

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeExplain, ModeContinue, ModeSummarize, ModeVisualize}

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeExplain, ModeContinue, ModeSummarize, ModeVisualize:
		return true
	}
	return false
}

// Label returns the heading the UI prints above a result for this mode.
// The summarize label names the quote's author.
func (m Mode) Label(author string) string {
	switch m {
	case ModeExplain:
		return "Meaning:"
	case ModeContinue:
		return "Continuation:"
	case ModeSummarize:
		return fmt.Sprintf("About %s:", author)
	case ModeVisualize:
		return "Image prompt:"
	}
	return ""
}

// Result is one elaboration produced for a quote. Content is rendered raw,
// embedded line breaks included.
type Result struct {
	Mode    Mode
	Content string
}

// Client produces elaborations for quotes.
type Client interface {
	Elaborate(ctx context.Context, quote quotes.Quote, mode Mode) (Result, error)
	Name() string
}
