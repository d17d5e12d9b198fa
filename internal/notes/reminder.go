package notes

import (
	"sort"
	"time"
)

// DefaultSoonWindow is how far into the future a reminder still counts as
// due soon.
const DefaultSoonWindow = 24 * time.Hour

// ReminderStatus classifies a reminder instant relative to now.
type ReminderStatus string

const (
	// ReminderOverdue marks an instant at or before now.
	ReminderOverdue ReminderStatus = "overdue"
	// ReminderSoon marks a future instant within the soon window.
	ReminderSoon ReminderStatus = "soon"
	// ReminderScheduled marks a future instant beyond the soon window.
	ReminderScheduled ReminderStatus = "scheduled"
)

// ReminderEntry is one classified reminder. Title falls back to the
// note's display title so list rows never render blank.
type ReminderEntry struct {
	NoteID string
	Title  string
	At     time.Time
	Status ReminderStatus
}

// Label renders the entry the way the editor status line phrases it.
func (e ReminderEntry) Label() string {
	formatted := e.At.Format(reminderDisplayLayout)
	switch e.Status {
	case ReminderOverdue:
		return "Overdue: " + formatted
	case ReminderSoon:
		return "Due soon: " + formatted
	default:
		return "Reminder: " + formatted
	}
}

// Agenda groups what matters for the calendar day containing now.
type Agenda struct {
	// OverdueReminders holds reminders strictly before now, earliest first.
	OverdueReminders []ReminderEntry
	// TodayReminders holds reminders later today, ascending by time of day.
	TodayReminders []ReminderEntry
	// TodayNotes holds notes updated during today's calendar day, most
	// recently updated first, regardless of reminder or status.
	TodayNotes []Note
}

// ClassifyReminders produces the flat reminder list sorted ascending by
// scheduled instant. Notes without a parseable reminder are excluded.
func ClassifyReminders(collection []Note, now time.Time, soonWindow time.Duration) []ReminderEntry {
	if soonWindow <= 0 {
		soonWindow = DefaultSoonWindow
	}

	entries := make([]ReminderEntry, 0, len(collection))
	for _, note := range collection {
		when, ok := note.ReminderTime()
		if !ok {
			continue
		}
		entries = append(entries, ReminderEntry{
			NoteID: note.ID,
			Title:  note.DisplayTitle(),
			At:     when,
			Status: classifyInstant(when, now, soonWindow),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].At.Before(entries[j].At)
	})
	return entries
}

// BuildAgenda derives the three daily buckets for the day containing now.
func BuildAgenda(collection []Note, now time.Time, soonWindow time.Duration) Agenda {
	entries := ClassifyReminders(collection, now, soonWindow)

	agenda := Agenda{
		OverdueReminders: make([]ReminderEntry, 0),
		TodayReminders:   make([]ReminderEntry, 0),
		TodayNotes:       make([]Note, 0),
	}
	for _, entry := range entries {
		switch {
		case entry.At.Before(now):
			agenda.OverdueReminders = append(agenda.OverdueReminders, entry)
		case sameCalendarDay(entry.At, now):
			agenda.TodayReminders = append(agenda.TodayReminders, entry)
		}
	}

	for _, note := range sortNotesByUpdatedDesc(collection) {
		if sameCalendarDay(time.UnixMilli(note.UpdatedAt).In(time.Local), now) {
			agenda.TodayNotes = append(agenda.TodayNotes, note.Clone())
		}
	}
	return agenda
}

func classifyInstant(when, now time.Time, soonWindow time.Duration) ReminderStatus {
	if !when.After(now) {
		return ReminderOverdue
	}
	if when.Sub(now) <= soonWindow {
		return ReminderSoon
	}
	return ReminderScheduled
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
