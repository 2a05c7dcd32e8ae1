package pipeline

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// State is the lifecycle phase of the current run.
type State string

const (
	StateIdle      State = "idle"
	StateResolving State = "resolving"
	StateAnalyzing State = "analyzing"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

// terminal reports whether a new run may start from this state.
func (s State) terminal() bool {
	return s == StateIdle || s == StateDone || s == StateFailed
}

// Transition is one observed state change, tagged with the run it belongs to.
type Transition struct {
	RunID  string
	State  State
	Detail string
}

// Tracker serializes run lifecycle transitions. Each run gets a fresh ID and
// a generation number; updates carrying a stale generation are discarded, so
// a slow goroutine from an abandoned run can never overwrite the current one.
type Tracker struct {
	mu         sync.Mutex
	state      State
	detail     string
	runID      string
	generation uint64
	subs       []chan Transition
	logger     *slog.Logger
}

// NewTracker creates a tracker in the idle state.
func NewTracker(logger *slog.Logger) *Tracker {
	return &Tracker{state: StateIdle, logger: logger}
}

// Begin starts a new run. It fails unless the tracker is idle or the
// previous run has finished.
func (t *Tracker) Begin() (runID string, generation uint64, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.terminal() {
		return "", 0, fmt.Errorf("run %s still in state %s", t.runID, t.state)
	}

	t.generation++
	t.runID = uuid.NewString()
	t.state = StateResolving
	t.detail = ""
	t.logger.Debug("run started", "run_id", t.runID)
	t.notifyLocked()
	return t.runID, t.generation, nil
}

// Advance moves the run to a new state. It returns false, without applying
// anything, when generation no longer matches the current run.
func (t *Tracker) Advance(generation uint64, state State, detail string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if generation != t.generation {
		t.logger.Debug("discarding stale state update",
			"stale_generation", generation, "current_generation", t.generation, "state", state)
		return false
	}

	t.state = state
	t.detail = detail
	t.notifyLocked()
	return true
}

// State returns the current state and its detail string.
func (t *Tracker) State() (State, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.detail
}

// RunID returns the identifier of the current (or last) run.
func (t *Tracker) RunID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runID
}

// Subscribe returns a channel receiving every subsequent transition. The
// channel is buffered; a subscriber that stops draining loses updates rather
// than blocking the pipeline.
func (t *Tracker) Subscribe() <-chan Transition {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan Transition, 16)
	t.subs = append(t.subs, ch)
	return ch
}

// notifyLocked fans the current state out to subscribers. Caller holds mu.
func (t *Tracker) notifyLocked() {
	tr := Transition{RunID: t.runID, State: t.state, Detail: t.detail}
	for _, ch := range t.subs {
		select {
		case ch <- tr:
		default:
		}
	}
}
