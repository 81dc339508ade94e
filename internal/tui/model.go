// Package tui holds the view state for the quote and elaboration flows and
// renders them with bubbletea.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sgoyal/quotidian/internal/gemini"
	"github.com/sgoyal/quotidian/internal/quotes"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Quotes       quotes.Source
	Gemini       gemini.Client
	FetchTimeout time.Duration
}

// User-facing failure strings. Underlying causes only reach the debug log.
const (
	quoteFailureMessage     = "Couldn't fetch a quote. Press r to try again."
	elaborateFailureMessage = "Something went wrong. Try again or pick another mode."
)

const heroTagline = "A random quote, elaborated on demand."

// activityLimit bounds the session-log footer.
const activityLimit = 5

var modeKeys = map[string]gemini.Mode{
	"e": gemini.ModeExplain,
	"c": gemini.ModeContinue,
	"s": gemini.ModeSummarize,
	"v": gemini.ModeVisualize,
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = 35 * time.Second
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &model{
		config:  config,
		bus:     newFlowBus(),
		spinner: spin,
		width:   80,
	}
}

type model struct {
	config  Config
	bus     *flowBus
	spinner spinner.Model
	width   int

	// generation increments on every quote fetch; async results stamped
	// with an older generation are dropped on arrival.
	generation int

	quote        *quotes.Quote
	quoteLoading bool
	quoteError   string

	result         *gemini.Result
	elaborating    bool
	elaborateError string

	infoMessage string
	helpVisible bool
	activity    []flowSnapshot
}

type quoteResultMsg struct {
	generation int
	quote      *quotes.Quote
	err        error
}

type elaborateResultMsg struct {
	generation int
	mode       gemini.Mode
	result     *gemini.Result
	err        error
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.beginFetch())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.quoteLoading || m.elaborating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case flowSignalMsg:
		m.recordActivity(msg.Snapshot)
		return m, nil
	case flowResultEnvelope:
		m.recordActivity(msg.Snapshot)
		if msg.Payload != nil {
			return m.Update(msg.Payload)
		}
		return m, nil
	case quoteResultMsg:
		return m.handleQuoteResult(msg)
	case elaborateResultMsg:
		return m.handleElaborateResult(msg)
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "r":
		if cmd := m.beginFetch(); cmd != nil {
			return m, tea.Batch(m.spinner.Tick, cmd)
		}
		return m, nil
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	}
	if mode, ok := modeKeys[key.String()]; ok {
		if cmd := m.beginElaborate(mode); cmd != nil {
			return m, tea.Batch(m.spinner.Tick, cmd)
		}
	}
	return m, nil
}

// beginFetch enters the quote flow. Entering the retry loop discards any
// held elaboration immediately, even if the fetch later fails; the prior
// quote stays visible until a replacement arrives.
func (m *model) beginFetch() tea.Cmd {
	if m.config.Quotes == nil || m.quoteLoading {
		return nil
	}
	m.generation++
	m.quoteLoading = true
	m.quoteError = ""
	m.result = nil
	m.elaborateError = ""
	m.elaborating = false
	m.infoMessage = "Fetching a quote…"
	return m.bus.Start(flowQuote, fetchQuoteJob(m.config.Quotes, m.config.FetchTimeout, m.generation))
}

// beginElaborate enters the elaborate flow. With no quote present this is a
// strict no-op: no state change, no command.
func (m *model) beginElaborate(mode gemini.Mode) tea.Cmd {
	if m.quote == nil {
		return nil
	}
	if m.config.Gemini == nil {
		m.infoMessage = "Set GEMINI_API_KEY to enable elaborations."
		return nil
	}
	if m.elaborating || m.quoteLoading {
		return nil
	}
	m.elaborating = true
	m.elaborateError = ""
	m.result = nil
	m.infoMessage = fmt.Sprintf("Asking %s…", m.config.Gemini.Name())
	return m.bus.Start(flowElaborate, elaborateJob(m.config.Gemini, *m.quote, mode, m.generation))
}

func (m *model) handleQuoteResult(msg quoteResultMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.generation {
		return m, nil
	}
	m.quoteLoading = false
	if msg.err != nil {
		m.quoteError = quoteFailureMessage
		m.infoMessage = ""
		return m, nil
	}
	m.quote = msg.quote
	m.quoteError = ""
	m.infoMessage = "e: explain • c: continue • s: summarize • v: visualize • r: new quote"
	return m, nil
}

func (m *model) handleElaborateResult(msg elaborateResultMsg) (tea.Model, tea.Cmd) {
	// A newer quote owns the view; results requested under an older
	// generation are discarded on arrival.
	if msg.generation != m.generation {
		return m, nil
	}
	m.elaborating = false
	if msg.err != nil {
		m.elaborateError = elaborateFailureMessage
		m.infoMessage = ""
		return m, nil
	}
	m.result = msg.result
	m.elaborateError = ""
	m.infoMessage = "r fetches a new quote and clears this."
	return m, nil
}

// recordActivity replaces the running snapshot with its completion by ID,
// keeping at most activityLimit entries.
func (m *model) recordActivity(snapshot flowSnapshot) {
	for i := range m.activity {
		if m.activity[i].ID == snapshot.ID {
			m.activity[i] = snapshot
			return
		}
	}
	m.activity = append(m.activity, snapshot)
	if len(m.activity) > activityLimit {
		m.activity = m.activity[len(m.activity)-activityLimit:]
	}
}
