package notes

import (
	"errors"
	"sync"
	"time"
)

// DefaultAutosaveDelay is the quiet period after the last edit before a
// buffered title/content edit commits.
const DefaultAutosaveDelay = 400 * time.Millisecond

var errMissingCommit = errors.New("notes: autosave commit function is required")

// AutosaverConfig wires the debounced editor commit.
type AutosaverConfig struct {
	// Delay is the quiet period; DefaultAutosaveDelay when zero.
	Delay time.Duration
	// Commit applies the buffered edit, typically Store.UpdateNote.
	Commit func(noteID string, patch NotePatch)
}

// Autosaver buffers title/content edits and commits the latest buffered
// state once a quiet period elapses with no further edits. An edit to a
// different note cancels the pending edit outright so a stale buffer can
// never commit against the wrong note.
type Autosaver struct {
	mu      sync.Mutex
	delay   time.Duration
	commit  func(noteID string, patch NotePatch)
	timer   *time.Timer
	pending bool
	noteID  string
	title   string
	content string
}

// NewAutosaver builds an autosaver around a commit function.
func NewAutosaver(cfg AutosaverConfig) (*Autosaver, error) {
	if cfg.Commit == nil {
		return nil, errMissingCommit
	}
	delay := cfg.Delay
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosaver{delay: delay, commit: cfg.Commit}, nil
}

// Edit buffers the latest title/content for the note and restarts the
// quiet-period timer. Last write wins; at most one commit fires per
// quiet period.
func (a *Autosaver) Edit(noteID, title, content string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if noteID == "" {
		return
	}
	if a.pending && a.noteID != noteID {
		a.stopLocked()
	}

	a.pending = true
	a.noteID = noteID
	a.title = title
	a.content = content

	if a.timer != nil {
		a.timer.Reset(a.delay)
		return
	}
	a.timer = time.AfterFunc(a.delay, a.fire)
}

// Cancel discards any pending edit without committing, e.g. when focus
// moves to a different note or the editor unmounts.
func (a *Autosaver) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

// Flush commits any pending edit immediately.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	noteID, patch, ok := a.takeLocked()
	a.mu.Unlock()
	if ok {
		a.commit(noteID, patch)
	}
}

func (a *Autosaver) fire() {
	a.mu.Lock()
	noteID, patch, ok := a.takeLocked()
	a.mu.Unlock()
	if ok {
		a.commit(noteID, patch)
	}
}

// takeLocked removes and returns the pending edit. Callers must hold a.mu.
func (a *Autosaver) takeLocked() (string, NotePatch, bool) {
	if !a.pending {
		return "", NotePatch{}, false
	}
	a.pending = false
	title := a.title
	content := a.content
	return a.noteID, NotePatch{Title: &title, Content: &content}, true
}

// stopLocked discards the pending edit and stops the timer. Callers must
// hold a.mu.
func (a *Autosaver) stopLocked() {
	a.pending = false
	if a.timer != nil {
		a.timer.Stop()
	}
}
