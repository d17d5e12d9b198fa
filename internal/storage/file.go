package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/notablehq/notable/internal/notes"
	"go.uber.org/zap"
)

// FileAdapter persists the note collection as a single JSON array file.
// It is the local-storage analog: best effort, never failing outward.
type FileAdapter struct {
	path   string
	clock  func() time.Time
	logger *zap.Logger
}

// NewFileAdapter builds a file adapter for the given path. A nil logger
// disables logging.
func NewFileAdapter(path string, logger *zap.Logger) *FileAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileAdapter{path: path, clock: time.Now, logger: logger}
}

// Path returns the backing file path.
func (a *FileAdapter) Path() string {
	return a.path
}

// Load reads and normalizes the persisted collection. Any error, missing
// file, or malformed payload yields an empty collection; individually
// malformed records are dropped or defaulted.
func (a *FileAdapter) Load() []notes.Note {
	payload, err := os.ReadFile(a.path)
	if err != nil {
		if !os.IsNotExist(err) {
			a.logger.Warn("notes file read failed", zap.String("path", a.path), zap.Error(err))
		}
		return []notes.Note{}
	}

	var records []looseRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		a.logger.Warn("notes file payload malformed", zap.String("path", a.path), zap.Error(err))
		return []notes.Note{}
	}

	collection := make([]notes.Note, 0, len(records))
	for _, record := range records {
		note, ok := coerceRecord(record, a.clock)
		if !ok {
			a.logger.Debug("dropping note record without id", zap.String("path", a.path))
			continue
		}
		collection = append(collection, note)
	}
	return collection
}

// Save writes the sanitized seven-field projection atomically via a
// temp file and rename. It reports success as a boolean and never
// panics.
func (a *FileAdapter) Save(collection []notes.Note) bool {
	payload, err := json.MarshalIndent(sanitizeNotes(collection), "", "  ")
	if err != nil {
		a.logger.Warn("notes serialization failed", zap.Error(err))
		return false
	}

	if dir := filepath.Dir(a.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			a.logger.Warn("notes directory create failed", zap.String("dir", dir), zap.Error(err))
			return false
		}
	}

	tempPath := a.path + ".tmp"
	if err := os.WriteFile(tempPath, payload, 0o644); err != nil {
		a.logger.Warn("notes file write failed", zap.String("path", tempPath), zap.Error(err))
		return false
	}
	if err := os.Rename(tempPath, a.path); err != nil {
		a.logger.Warn("notes file rename failed", zap.String("path", a.path), zap.Error(err))
		return false
	}
	return true
}

// Clear wipes the persisted state. Reserved for tests and reset
// utilities; not used by normal flows.
func (a *FileAdapter) Clear() {
	if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
		a.logger.Warn("notes file remove failed", zap.String("path", a.path), zap.Error(err))
	}
}
