package notes

import (
	"sort"
	"strings"
	"time"
)

// Status enumerates the kanban workflow buckets a note can occupy.
type Status string

const (
	// StatusTodo is the default workflow bucket.
	StatusTodo Status = "todo"
	// StatusInProgress marks a note as actively worked on.
	StatusInProgress Status = "inprogress"
	// StatusDone marks a note as finished.
	StatusDone Status = "done"
)

// DefaultTitle is the display title used for notes with an empty title.
const DefaultTitle = "Untitled note"

// reminderLayouts lists the accepted reminder datetime formats, most
// specific first. Reminders are local datetimes without a zone offset.
var reminderLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Note is the sole persisted entity. UpdatedAt is milliseconds since the
// epoch and the only ordering key for display. Reminder is an ISO-8601
// local datetime string, empty when no reminder is set.
type Note struct {
	ID        string
	Title     string
	Content   string
	UpdatedAt int64
	Reminder  string
	Status    Status
	Tags      []string
}

// DisplayTitle returns the title to render, falling back to DefaultTitle
// when the stored title is blank.
func (n Note) DisplayTitle() string {
	if strings.TrimSpace(n.Title) == "" {
		return DefaultTitle
	}
	return n.Title
}

// Preview returns a single-line excerpt of the note content suitable for
// list rows, capped at 80 runes.
func (n Note) Preview() string {
	collapsed := collapseWhitespace(n.Content)
	runes := []rune(collapsed)
	if len(runes) <= 80 {
		return collapsed
	}
	return string(runes[:80])
}

// ReminderTime parses the note's reminder string in local time. The second
// return value is false when no reminder is set or the string does not
// parse; callers treat that as "no reminder".
func (n Note) ReminderTime() (time.Time, bool) {
	return ParseReminder(n.Reminder)
}

// Clone returns a deep copy of the note so callers cannot mutate the
// store's collection through a returned value.
func (n Note) Clone() Note {
	copied := n
	if n.Tags != nil {
		copied.Tags = append([]string(nil), n.Tags...)
	}
	return copied
}

// ParseReminder parses an ISO-8601 local datetime string. It accepts
// date-only values and values with or without seconds.
func ParseReminder(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range reminderLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// NormalizeStatus maps raw status input onto a recognized Status,
// defaulting to StatusTodo for anything unrecognized.
func NormalizeStatus(raw string) Status {
	trimmed := Status(strings.TrimSpace(raw))
	switch trimmed {
	case StatusTodo, StatusInProgress, StatusDone:
		return trimmed
	default:
		return StatusTodo
	}
}

// NormalizeTags trims, lowercases, and deduplicates the provided tags,
// preserving first-seen order so the display order stays deterministic.
func NormalizeTags(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	normalized := make([]string, 0, len(raw))
	for _, tag := range raw {
		cleaned := strings.ToLower(strings.TrimSpace(tag))
		if cleaned == "" {
			continue
		}
		if _, duplicate := seen[cleaned]; duplicate {
			continue
		}
		seen[cleaned] = struct{}{}
		normalized = append(normalized, cleaned)
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}

// collapseWhitespace folds every run of whitespace, newlines included,
// into a single space.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// sortNotesByUpdatedDesc returns a copy of the collection ordered most
// recently updated first. Equal timestamps keep collection order.
func sortNotesByUpdatedDesc(collection []Note) []Note {
	ordered := make([]Note, len(collection))
	copy(ordered, collection)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UpdatedAt > ordered[j].UpdatedAt
	})
	return ordered
}
