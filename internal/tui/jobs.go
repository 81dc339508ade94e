package tui

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type flowKind string

type flowStatus string

const (
	flowQuote     flowKind = "quote"
	flowElaborate flowKind = "elaborate"
)

const (
	flowStatusRunning   flowStatus = "running"
	flowStatusSucceeded flowStatus = "succeeded"
	flowStatusFailed    flowStatus = "failed"
)

// flowSnapshot records one observation of an async flow run. Snapshots feed
// the session-log footer and the debug log; nothing is persisted.
type flowSnapshot struct {
	ID          string
	Kind        flowKind
	Status      flowStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type flowSignalMsg struct {
	Snapshot flowSnapshot
}

type flowResultEnvelope struct {
	Snapshot flowSnapshot
	Payload  tea.Msg
}

type flowRunner func(context.Context) (tea.Msg, error)

type flowBus struct {
	counter int64
}

func newFlowBus() *flowBus {
	return &flowBus{}
}

func (b *flowBus) nextID(kind flowKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start emits a running snapshot immediately, then runs the flow and wraps
// its payload in an envelope carrying the completion snapshot.
func (b *flowBus) Start(kind flowKind, runner flowRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	startSnapshot := flowSnapshot{ID: id, Kind: kind, Status: flowStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return flowSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		ctx := context.Background()
		payload, err := runner(ctx)
		snapshot := flowSnapshot{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: time.Now(),
		}
		if err != nil {
			snapshot.Status = flowStatusFailed
			snapshot.Err = err.Error()
		} else {
			snapshot.Status = flowStatusSucceeded
		}
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		log.Printf("[flows] %s %s (duration=%s, err=%v)", kind, snapshot.Status, snapshot.Duration, err)
		return flowResultEnvelope{Snapshot: snapshot, Payload: payload}
	}

	return tea.Sequence(startCmd, runCmd)
}
