package tui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sgoyal/quotidian/internal/gemini"
	"github.com/sgoyal/quotidian/internal/quotes"
)

type fakeSource struct {
	quote quotes.Quote
	err   error
	calls int32
}

func (f *fakeSource) Random(ctx context.Context) (quotes.Quote, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.quote, f.err
}

type fakeGemini struct {
	content string
	err     error
	calls   int32
}

func (f *fakeGemini) Elaborate(ctx context.Context, quote quotes.Quote, mode gemini.Mode) (gemini.Result, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return gemini.Result{}, f.err
	}
	return gemini.Result{Mode: mode, Content: f.content}, nil
}

func (f *fakeGemini) Name() string { return "fake" }

func newTestModel(t *testing.T, config Config) *model {
	t.Helper()
	teaModel, ok := New(config).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", New(config))
	}
	return teaModel
}

func TestElaborateWithoutQuoteIsNoOp(t *testing.T) {
	m := newTestModel(t, Config{Gemini: &fakeGemini{}})
	before := *m

	if cmd := m.beginElaborate(gemini.ModeExplain); cmd != nil {
		t.Fatal("expected no command without a quote")
	}
	if m.elaborating || m.result != nil || m.elaborateError != "" {
		t.Fatalf("state changed: %+v", m)
	}
	if m.infoMessage != before.infoMessage || m.generation != before.generation {
		t.Fatal("no-op must not touch messages or generation")
	}
}

func TestFetchResetsElaborationStateOnEntry(t *testing.T) {
	m := newTestModel(t, Config{Quotes: &fakeSource{}})
	m.quote = &quotes.Quote{Content: "A", Author: "B"}
	m.result = &gemini.Result{Mode: gemini.ModeExplain, Content: "old"}
	m.elaborateError = "stale error"

	cmd := m.beginFetch()
	if cmd == nil {
		t.Fatal("expected a fetch command")
	}
	// Reset happens before the network call resolves.
	if m.result != nil || m.elaborateError != "" || m.elaborating {
		t.Fatalf("elaboration state not reset: %+v", m)
	}
	if !m.quoteLoading {
		t.Fatal("quote flow should be loading")
	}
	if m.quote == nil || m.quote.Content != "A" {
		t.Fatal("prior quote must stay until a replacement arrives")
	}
}

func TestQuoteSuccessReplacesQuoteAndClearsElaboration(t *testing.T) {
	m := newTestModel(t, Config{Quotes: &fakeSource{}})
	m.quote = &quotes.Quote{Content: "old", Author: "X"}
	m.result = &gemini.Result{Mode: gemini.ModeContinue, Content: "held"}

	if cmd := m.beginFetch(); cmd == nil {
		t.Fatal("expected a fetch command")
	}
	next := &quotes.Quote{Content: "A", Author: "B"}
	m.Update(quoteResultMsg{generation: m.generation, quote: next})

	if m.quoteLoading {
		t.Fatal("loading flag not cleared")
	}
	if m.quote != next {
		t.Fatalf("quote not replaced: %+v", m.quote)
	}
	if m.result != nil || m.elaborateError != "" {
		t.Fatal("elaboration state must stay cleared after a fetch")
	}
	if !strings.Contains(m.View(), "\"A\" — B") {
		t.Fatalf("view missing quote display: %s", m.View())
	}
}

func TestQuoteFailureShowsGenericMessageOnly(t *testing.T) {
	m := newTestModel(t, Config{Quotes: &fakeSource{}})
	if cmd := m.beginFetch(); cmd == nil {
		t.Fatal("expected a fetch command")
	}
	m.Update(quoteResultMsg{generation: m.generation, err: errors.New("dial tcp: connection refused")})

	if m.quoteLoading {
		t.Fatal("loading flag not cleared")
	}
	if m.quote != nil {
		t.Fatal("no quote should be displayed after a first-load failure")
	}
	if m.quoteError != quoteFailureMessage {
		t.Fatalf("unexpected error message: %q", m.quoteError)
	}
	view := m.View()
	if !strings.Contains(view, quoteFailureMessage) {
		t.Fatalf("view missing failure message: %s", view)
	}
	if strings.Contains(view, "connection refused") {
		t.Fatal("underlying cause must never reach the user")
	}
}

func TestStaleQuoteResultDropped(t *testing.T) {
	m := newTestModel(t, Config{Quotes: &fakeSource{}})
	m.beginFetch()
	stale := m.generation
	m.quoteLoading = false
	m.beginFetch()

	m.Update(quoteResultMsg{generation: stale, quote: &quotes.Quote{Content: "late", Author: "Z"}})
	if m.quote != nil {
		t.Fatalf("stale quote result must be dropped, got %+v", m.quote)
	}
	if !m.quoteLoading {
		t.Fatal("current fetch is still in flight")
	}
}

func TestElaborateResultTaggedWithRequestedMode(t *testing.T) {
	m := newTestModel(t, Config{Quotes: &fakeSource{}, Gemini: &fakeGemini{}})
	m.quote = &quotes.Quote{Content: "A", Author: "B"}

	if cmd := m.beginElaborate(gemini.ModeSummarize); cmd == nil {
		t.Fatal("expected an elaborate command")
	}
	if !m.elaborating {
		t.Fatal("elaborate flow should be loading")
	}

	m.Update(elaborateResultMsg{
		generation: m.generation,
		mode:       gemini.ModeSummarize,
		result:     &gemini.Result{Mode: gemini.ModeSummarize, Content: "X"},
	})

	if m.elaborating {
		t.Fatal("loading flag not cleared")
	}
	if m.result == nil || m.result.Mode != gemini.ModeSummarize || m.result.Content != "X" {
		t.Fatalf("unexpected result: %+v", m.result)
	}
	view := m.View()
	if !strings.Contains(view, "About B:") {
		t.Fatalf("view missing summarize label: %s", view)
	}
	if !strings.Contains(view, "X") {
		t.Fatalf("view missing result content: %s", view)
	}
}

func TestElaborateFailureClearsLoadingAndShowsGenericMessage(t *testing.T) {
	m := newTestModel(t, Config{Gemini: &fakeGemini{}})
	m.quote = &quotes.Quote{Content: "A", Author: "B"}

	if cmd := m.beginElaborate(gemini.ModeVisualize); cmd == nil {
		t.Fatal("expected an elaborate command")
	}
	m.Update(elaborateResultMsg{generation: m.generation, mode: gemini.ModeVisualize, err: gemini.ErrNoContent})

	if m.elaborating {
		t.Fatal("loading flag must clear on failure too")
	}
	if m.result != nil {
		t.Fatal("no partial result may be shown")
	}
	if m.elaborateError != elaborateFailureMessage {
		t.Fatalf("unexpected error message: %q", m.elaborateError)
	}
}

func TestStaleElaborationDroppedAfterNewFetch(t *testing.T) {
	m := newTestModel(t, Config{Quotes: &fakeSource{}, Gemini: &fakeGemini{}})
	m.quote = &quotes.Quote{Content: "A", Author: "B"}

	m.beginElaborate(gemini.ModeExplain)
	stale := m.generation
	m.beginFetch()

	m.Update(elaborateResultMsg{
		generation: stale,
		mode:       gemini.ModeExplain,
		result:     &gemini.Result{Mode: gemini.ModeExplain, Content: "late arrival"},
	})
	if m.result != nil {
		t.Fatalf("superseded elaboration must be discarded, got %+v", m.result)
	}
}

func TestTriggersIgnoredWhileFlowInFlight(t *testing.T) {
	m := newTestModel(t, Config{Quotes: &fakeSource{}, Gemini: &fakeGemini{}})
	m.quote = &quotes.Quote{Content: "A", Author: "B"}

	m.beginFetch()
	generation := m.generation
	if cmd := m.beginFetch(); cmd != nil {
		t.Fatal("second fetch should be ignored while one is loading")
	}
	if m.generation != generation {
		t.Fatal("ignored trigger must not bump the generation")
	}
	if cmd := m.beginElaborate(gemini.ModeExplain); cmd != nil {
		t.Fatal("elaborate should be ignored while a fetch is loading")
	}

	m.quoteLoading = false
	m.beginElaborate(gemini.ModeExplain)
	if cmd := m.beginElaborate(gemini.ModeContinue); cmd != nil {
		t.Fatal("second elaborate should be ignored while one is loading")
	}
}

func TestElaborateWithoutClientExplains(t *testing.T) {
	m := newTestModel(t, Config{Quotes: &fakeSource{}})
	m.quote = &quotes.Quote{Content: "A", Author: "B"}

	if cmd := m.beginElaborate(gemini.ModeExplain); cmd != nil {
		t.Fatal("expected no command without a gemini client")
	}
	if !strings.Contains(m.infoMessage, "GEMINI_API_KEY") {
		t.Fatalf("expected a hint about the missing key, got %q", m.infoMessage)
	}
}

func TestRecordActivityReplacesAndBounds(t *testing.T) {
	m := newTestModel(t, Config{})

	m.recordActivity(flowSnapshot{ID: "quote-1", Kind: flowQuote, Status: flowStatusRunning})
	m.recordActivity(flowSnapshot{ID: "quote-1", Kind: flowQuote, Status: flowStatusSucceeded})
	if len(m.activity) != 1 {
		t.Fatalf("completion should replace the running snapshot, got %d entries", len(m.activity))
	}
	if m.activity[0].Status != flowStatusSucceeded {
		t.Fatalf("unexpected status: %s", m.activity[0].Status)
	}

	for i := 0; i < activityLimit+3; i++ {
		m.recordActivity(flowSnapshot{ID: string(rune('a' + i)), Status: flowStatusSucceeded})
	}
	if len(m.activity) != activityLimit {
		t.Fatalf("activity log not bounded, got %d entries", len(m.activity))
	}
}
