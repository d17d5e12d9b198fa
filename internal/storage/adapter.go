// Package storage provides the persistence adapters behind the note
// store: a JSON file adapter and a SQLite adapter, both honoring the
// same load/save/clear contract. Load never fails outward; malformed
// records are dropped or defaulted. Save reports success as a boolean.
package storage

import (
	"strings"
	"time"

	"github.com/notablehq/notable/internal/notes"
)

// noteRecord is the persisted JSON projection of a note: exactly the
// seven canonical fields, nothing else.
type noteRecord struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	UpdatedAt int64    `json:"updatedAt"`
	Reminder  *string  `json:"reminder"`
	Status    string   `json:"status"`
	Tags      []string `json:"tags"`
}

// looseRecord tolerates arbitrarily typed fields in persisted payloads
// so a malformed record degrades instead of failing the whole load.
type looseRecord struct {
	ID        any `json:"id"`
	Title     any `json:"title"`
	Content   any `json:"content"`
	UpdatedAt any `json:"updatedAt"`
	Reminder  any `json:"reminder"`
	Status    any `json:"status"`
	Tags      any `json:"tags"`
}

// sanitizeNotes projects notes onto their canonical persisted shape.
func sanitizeNotes(collection []notes.Note) []noteRecord {
	records := make([]noteRecord, 0, len(collection))
	for _, note := range collection {
		var reminder *string
		if note.Reminder != "" {
			value := note.Reminder
			reminder = &value
		}
		tags := note.Tags
		if tags == nil {
			tags = []string{}
		}
		records = append(records, noteRecord{
			ID:        note.ID,
			Title:     note.Title,
			Content:   note.Content,
			UpdatedAt: note.UpdatedAt,
			Reminder:  reminder,
			Status:    string(notes.NormalizeStatus(string(note.Status))),
			Tags:      tags,
		})
	}
	return records
}

// coerceRecord normalizes one loaded record. Records without a string id
// are dropped (second return false); every other field is coerced to its
// default when missing or wrongly typed.
func coerceRecord(raw looseRecord, now func() time.Time) (notes.Note, bool) {
	id, ok := raw.ID.(string)
	if !ok || strings.TrimSpace(id) == "" {
		return notes.Note{}, false
	}

	note := notes.Note{ID: id, Title: notes.DefaultTitle, Status: notes.StatusTodo}
	if title, isString := raw.Title.(string); isString {
		note.Title = title
	}
	if content, isString := raw.Content.(string); isString {
		note.Content = content
	}
	if millis, isNumber := raw.UpdatedAt.(float64); isNumber {
		note.UpdatedAt = int64(millis)
	} else {
		note.UpdatedAt = now().UnixMilli()
	}
	if reminder, isString := raw.Reminder.(string); isString {
		note.Reminder = strings.TrimSpace(reminder)
	}
	if status, isString := raw.Status.(string); isString {
		note.Status = notes.NormalizeStatus(status)
	}
	if rawTags, isList := raw.Tags.([]any); isList {
		tags := make([]string, 0, len(rawTags))
		for _, tag := range rawTags {
			if value, isString := tag.(string); isString {
				tags = append(tags, value)
			}
		}
		note.Tags = notes.NormalizeTags(tags)
	}
	return note, true
}
