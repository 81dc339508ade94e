package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sgoyal/quotidian/internal/gemini"
	"github.com/sgoyal/quotidian/internal/quotes"
)

const elaborateTimeout = 2 * time.Minute

// fetchQuoteJob runs the quote flow. The generation stamp lets the model
// discard results that arrive after a newer fetch superseded them.
func fetchQuoteJob(source quotes.Source, timeout time.Duration, generation int) flowRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		quote, err := source.Random(ctx)
		if err != nil {
			return quoteResultMsg{generation: generation, err: err}, err
		}
		return quoteResultMsg{generation: generation, quote: &quote}, nil
	}
}

// elaborateJob runs the elaborate flow for the quote held when the user
// pressed the mode key.
func elaborateJob(client gemini.Client, quote quotes.Quote, mode gemini.Mode, generation int) flowRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, elaborateTimeout)
		defer cancel()
		result, err := client.Elaborate(ctx, quote, mode)
		if err != nil {
			return elaborateResultMsg{generation: generation, mode: mode, err: err}, err
		}
		return elaborateResultMsg{generation: generation, mode: mode, result: &result}, nil
	}
}
