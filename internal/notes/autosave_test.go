package notes

import (
	"sync"
	"testing"
	"time"
)

type commitRecorder struct {
	mu      sync.Mutex
	commits []committedEdit
	signal  chan struct{}
}

type committedEdit struct {
	noteID  string
	title   string
	content string
}

func newCommitRecorder() *commitRecorder {
	return &commitRecorder{signal: make(chan struct{}, 16)}
}

func (r *commitRecorder) commit(noteID string, patch NotePatch) {
	r.mu.Lock()
	edit := committedEdit{noteID: noteID}
	if patch.Title != nil {
		edit.title = *patch.Title
	}
	if patch.Content != nil {
		edit.content = *patch.Content
	}
	r.commits = append(r.commits, edit)
	r.mu.Unlock()
	r.signal <- struct{}{}
}

func (r *commitRecorder) snapshot() []committedEdit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]committedEdit(nil), r.commits...)
}

func (r *commitRecorder) waitForCommit(t *testing.T) {
	t.Helper()
	select {
	case <-r.signal:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for commit")
	}
}

func newTestAutosaver(t *testing.T, recorder *commitRecorder, delay time.Duration) *Autosaver {
	t.Helper()
	saver, err := NewAutosaver(AutosaverConfig{Delay: delay, Commit: recorder.commit})
	if err != nil {
		t.Fatalf("unexpected autosaver error: %v", err)
	}
	return saver
}

func TestNewAutosaverRequiresCommit(t *testing.T) {
	if _, err := NewAutosaver(AutosaverConfig{}); err == nil {
		t.Fatalf("expected error for missing commit function")
	}
}

func TestAutosaverCommitsLatestEditAfterQuietPeriod(t *testing.T) {
	recorder := newCommitRecorder()
	saver := newTestAutosaver(t, recorder, 20*time.Millisecond)

	saver.Edit("note-1", "draft", "first")
	saver.Edit("note-1", "draft", "second")
	recorder.waitForCommit(t)

	commits := recorder.snapshot()
	if len(commits) != 1 {
		t.Fatalf("expected exactly one commit, got %d", len(commits))
	}
	if commits[0].noteID != "note-1" || commits[0].content != "second" {
		t.Fatalf("last write must win, got %+v", commits[0])
	}
}

func TestAutosaverCancelDiscardsPendingEdit(t *testing.T) {
	recorder := newCommitRecorder()
	saver := newTestAutosaver(t, recorder, 20*time.Millisecond)

	saver.Edit("note-1", "draft", "doomed")
	saver.Cancel()

	time.Sleep(80 * time.Millisecond)
	if commits := recorder.snapshot(); len(commits) != 0 {
		t.Fatalf("cancelled edit must not commit, got %+v", commits)
	}
}

func TestAutosaverDropsPendingOnNoteSwitch(t *testing.T) {
	recorder := newCommitRecorder()
	saver := newTestAutosaver(t, recorder, 20*time.Millisecond)

	saver.Edit("note-1", "stale", "stale body")
	saver.Edit("note-2", "fresh", "fresh body")
	recorder.waitForCommit(t)

	time.Sleep(80 * time.Millisecond)
	commits := recorder.snapshot()
	if len(commits) != 1 {
		t.Fatalf("expected one commit, got %d", len(commits))
	}
	if commits[0].noteID != "note-2" {
		t.Fatalf("stale edit must never commit against the new note, got %+v", commits[0])
	}
}

func TestAutosaverFlushCommitsImmediately(t *testing.T) {
	recorder := newCommitRecorder()
	saver := newTestAutosaver(t, recorder, time.Hour)

	saver.Edit("note-1", "title", "body")
	saver.Flush()

	commits := recorder.snapshot()
	if len(commits) != 1 || commits[0].title != "title" {
		t.Fatalf("flush must commit the pending edit, got %+v", commits)
	}

	saver.Flush()
	if commits := recorder.snapshot(); len(commits) != 1 {
		t.Fatalf("second flush must be a no-op, got %d commits", len(commits))
	}
}

func TestAutosaverEmptyNoteIDIsIgnored(t *testing.T) {
	recorder := newCommitRecorder()
	saver := newTestAutosaver(t, recorder, 20*time.Millisecond)

	saver.Edit("", "title", "body")
	time.Sleep(80 * time.Millisecond)
	if commits := recorder.snapshot(); len(commits) != 0 {
		t.Fatalf("edit without a note identity must not commit")
	}
}
