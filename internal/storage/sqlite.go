package storage

import (
	"encoding/json"
	"fmt"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/notablehq/notable/internal/notes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// noteRow is the SQLite mapping of the canonical note projection. Tags
// are stored as a JSON array column.
type noteRow struct {
	ID              string  `gorm:"column:id;primaryKey;size:190;not null"`
	Title           string  `gorm:"column:title;type:text;not null"`
	Content         string  `gorm:"column:content;type:text;not null"`
	UpdatedAtMillis int64   `gorm:"column:updated_at_ms;not null;index:idx_notes_updated"`
	Reminder        *string `gorm:"column:reminder;size:32"`
	Status          string  `gorm:"column:status;size:32;not null;default:'todo'"`
	TagsJSON        string  `gorm:"column:tags_json;type:text;not null;default:'[]'"`
}

// TableName provides the explicit table binding for GORM.
func (noteRow) TableName() string {
	return "notes"
}

// SQLiteAdapter persists the note collection in a SQLite database while
// honoring the same never-failing load/save/clear contract as the file
// adapter.
type SQLiteAdapter struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

// OpenSQLite establishes a SQLite connection and performs schema
// migration.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteAdapter, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&noteRow{}); err != nil {
		return nil, err
	}

	logger.Info("database initialized", zap.String("path", path))
	return &SQLiteAdapter{db: db, clock: time.Now, logger: logger}, nil
}

// Load reads the collection ordered most recently updated first. Rows
// that fail to read are dropped, never surfaced.
func (a *SQLiteAdapter) Load() []notes.Note {
	var rows []noteRow
	if err := a.db.Order("updated_at_ms DESC").Find(&rows).Error; err != nil {
		a.logger.Warn("notes query failed", zap.Error(err))
		return []notes.Note{}
	}

	collection := make([]notes.Note, 0, len(rows))
	for _, row := range rows {
		if row.ID == "" {
			continue
		}
		note := notes.Note{
			ID:        row.ID,
			Title:     row.Title,
			Content:   row.Content,
			UpdatedAt: row.UpdatedAtMillis,
			Status:    notes.NormalizeStatus(row.Status),
		}
		if note.UpdatedAt <= 0 {
			note.UpdatedAt = a.clock().UnixMilli()
		}
		if row.Reminder != nil {
			note.Reminder = *row.Reminder
		}
		var tags []string
		if err := json.Unmarshal([]byte(row.TagsJSON), &tags); err == nil {
			note.Tags = notes.NormalizeTags(tags)
		}
		collection = append(collection, note)
	}
	return collection
}

// Save replaces the stored collection with the sanitized projection in
// one transaction and reports success as a boolean.
func (a *SQLiteAdapter) Save(collection []notes.Note) bool {
	records := sanitizeNotes(collection)
	err := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM notes").Error; err != nil {
			return err
		}
		for _, record := range records {
			tagsJSON, err := json.Marshal(record.Tags)
			if err != nil {
				return err
			}
			row := noteRow{
				ID:              record.ID,
				Title:           record.Title,
				Content:         record.Content,
				UpdatedAtMillis: record.UpdatedAt,
				Reminder:        record.Reminder,
				Status:          record.Status,
				TagsJSON:        string(tagsJSON),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		a.logger.Warn("notes save failed", zap.Error(err))
		return false
	}
	return true
}

// Clear wipes the stored collection. Reserved for tests and reset
// utilities.
func (a *SQLiteAdapter) Clear() {
	if err := a.db.Exec("DELETE FROM notes").Error; err != nil {
		a.logger.Warn("notes clear failed", zap.Error(err))
	}
}

// Close releases the underlying database handle.
func (a *SQLiteAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
