package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/notablehq/notable/internal/notes"
)

func tempNotesPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "notes.json")
}

func TestFileAdapterRoundTrip(t *testing.T) {
	adapter := NewFileAdapter(tempNotesPath(t), nil)
	collection := []notes.Note{
		{
			ID:        "a",
			Title:     "Groceries",
			Content:   "buy milk",
			UpdatedAt: 1714550400000,
			Reminder:  "2024-05-01T09:00",
			Status:    notes.StatusInProgress,
			Tags:      []string{"errands", "home"},
		},
		{
			ID:        "b",
			Title:     "",
			Content:   "",
			UpdatedAt: 1714550500000,
			Status:    notes.StatusTodo,
		},
	}

	if !adapter.Save(collection) {
		t.Fatalf("save should succeed")
	}

	loaded := adapter.Load()
	if len(loaded) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(loaded))
	}
	first := loaded[0]
	if first.ID != "a" || first.Title != "Groceries" || first.Content != "buy milk" {
		t.Fatalf("unexpected note %+v", first)
	}
	if first.UpdatedAt != 1714550400000 {
		t.Fatalf("updatedAt must round-trip, got %d", first.UpdatedAt)
	}
	if first.Reminder != "2024-05-01T09:00" {
		t.Fatalf("reminder must round-trip, got %q", first.Reminder)
	}
	if first.Status != notes.StatusInProgress {
		t.Fatalf("status must round-trip, got %q", first.Status)
	}
	if len(first.Tags) != 2 || first.Tags[0] != "errands" || first.Tags[1] != "home" {
		t.Fatalf("tags must round-trip, got %v", first.Tags)
	}
	if loaded[1].Reminder != "" {
		t.Fatalf("absent reminder must stay absent")
	}
}

func TestFileAdapterSavedPayloadShape(t *testing.T) {
	path := tempNotesPath(t)
	adapter := NewFileAdapter(path, nil)
	adapter.Save([]notes.Note{{ID: "a", UpdatedAt: 1, Status: notes.Status("bogus")}})

	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(payload, &records); err != nil {
		t.Fatalf("payload must be a JSON array: %v", err)
	}
	record := records[0]
	for _, field := range []string{"id", "title", "content", "updatedAt", "reminder", "status", "tags"} {
		if _, ok := record[field]; !ok {
			t.Fatalf("missing field %q in %v", field, record)
		}
	}
	if len(record) != 7 {
		t.Fatalf("payload must carry exactly the 7 canonical fields, got %d", len(record))
	}
	if record["status"] != "todo" {
		t.Fatalf("unrecognized status must be sanitized to todo, got %v", record["status"])
	}
	if record["reminder"] != nil {
		t.Fatalf("absent reminder must serialize as null")
	}
	if _, ok := record["tags"].([]any); !ok {
		t.Fatalf("tags must serialize as an array, got %T", record["tags"])
	}
}

func TestFileAdapterLoadMissingFile(t *testing.T) {
	adapter := NewFileAdapter(tempNotesPath(t), nil)
	if loaded := adapter.Load(); len(loaded) != 0 {
		t.Fatalf("missing file must load empty, got %d", len(loaded))
	}
}

func TestFileAdapterLoadMalformedPayload(t *testing.T) {
	path := tempNotesPath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	adapter := NewFileAdapter(path, nil)
	if loaded := adapter.Load(); len(loaded) != 0 {
		t.Fatalf("malformed payload must load empty, got %d", len(loaded))
	}
}

func TestFileAdapterLoadTopLevelObject(t *testing.T) {
	path := tempNotesPath(t)
	if err := os.WriteFile(path, []byte(`{"id":"a"}`), 0o644); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	adapter := NewFileAdapter(path, nil)
	if loaded := adapter.Load(); len(loaded) != 0 {
		t.Fatalf("non-array payload must load empty")
	}
}

func TestFileAdapterLoadCoercesRecords(t *testing.T) {
	path := tempNotesPath(t)
	payload := `[
		{"id": "ok", "title": 7, "content": false, "updatedAt": "soon", "reminder": 12, "status": 3, "tags": ["  A ", "a", 9, "B"]},
		{"id": "", "title": "dropped"},
		{"title": "also dropped"},
		{"id": "plain", "title": "Kept", "content": "body", "updatedAt": 5000, "status": "someday"}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	adapter := NewFileAdapter(path, nil)
	loaded := adapter.Load()
	if len(loaded) != 2 {
		t.Fatalf("expected 2 surviving records, got %d", len(loaded))
	}

	coerced := loaded[0]
	if coerced.ID != "ok" {
		t.Fatalf("unexpected id %q", coerced.ID)
	}
	if coerced.Title != notes.DefaultTitle {
		t.Fatalf("wrong-typed title must default, got %q", coerced.Title)
	}
	if coerced.Content != "" {
		t.Fatalf("wrong-typed content must default, got %q", coerced.Content)
	}
	if coerced.UpdatedAt <= 0 {
		t.Fatalf("wrong-typed updatedAt must default to a current timestamp")
	}
	if coerced.Reminder != "" {
		t.Fatalf("wrong-typed reminder must default to absent")
	}
	if coerced.Status != notes.StatusTodo {
		t.Fatalf("wrong-typed status must default to todo")
	}
	if len(coerced.Tags) != 2 || coerced.Tags[0] != "a" || coerced.Tags[1] != "b" {
		t.Fatalf("tags must be normalized, got %v", coerced.Tags)
	}

	kept := loaded[1]
	if kept.UpdatedAt != 5000 || kept.Status != notes.StatusTodo {
		t.Fatalf("unexpected kept record %+v", kept)
	}
}

func TestFileAdapterClear(t *testing.T) {
	path := tempNotesPath(t)
	adapter := NewFileAdapter(path, nil)
	adapter.Save([]notes.Note{{ID: "a", UpdatedAt: 1}})

	adapter.Clear()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("clear must remove the file")
	}
	if loaded := adapter.Load(); len(loaded) != 0 {
		t.Fatalf("load after clear must be empty")
	}

	// Clearing twice must stay silent.
	adapter.Clear()
}

func TestFileAdapterSaveFailureReturnsFalse(t *testing.T) {
	// The target path is a directory, so the rename cannot succeed.
	dir := t.TempDir()
	adapter := NewFileAdapter(dir, nil)
	if adapter.Save([]notes.Note{{ID: "a", UpdatedAt: 1}}) {
		t.Fatalf("save to an unwritable target must report failure")
	}
}
