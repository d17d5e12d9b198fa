package notes

import (
	"sort"
	"time"
)

// InlineCalendarItems is the presentation cap on items shown inside one
// month-grid cell; the rest is reported as an overflow count. The
// underlying grouping is never truncated.
const InlineCalendarItems = 3

// CalendarItemKind distinguishes the two item types landing on a date.
type CalendarItemKind string

const (
	// CalendarItemNote marks a note updated on that date.
	CalendarItemNote CalendarItemKind = "note"
	// CalendarItemReminder marks a reminder scheduled on that date.
	CalendarItemReminder CalendarItemKind = "reminder"
)

// CalendarItem is one entry inside a calendar cell. Time holds the
// reminder's time of day as "15:04" and is empty for note items.
type CalendarItem struct {
	Kind   CalendarItemKind
	NoteID string
	Title  string
	Time   string
}

// CalendarCell is one of the 42 cells in the month grid.
type CalendarCell struct {
	Date    time.Time
	Key     string
	InMonth bool
	Items   []CalendarItem
}

// Overflow reports how many items exceed the inline presentation cap.
func (c CalendarCell) Overflow() int {
	if len(c.Items) <= InlineCalendarItems {
		return 0
	}
	return len(c.Items) - InlineCalendarItems
}

// DateKey renders a calendar date as YYYY-MM-DD in local time.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ItemsByDate groups every note-updated event and every reminder by its
// local calendar date. Within a date, reminders sort before notes and
// reminders sort among themselves by time of day.
func ItemsByDate(collection []Note) map[string][]CalendarItem {
	grouped := make(map[string][]CalendarItem)
	for _, note := range collection {
		updated := time.UnixMilli(note.UpdatedAt).In(time.Local)
		key := DateKey(updated)
		grouped[key] = append(grouped[key], CalendarItem{
			Kind:   CalendarItemNote,
			NoteID: note.ID,
			Title:  note.DisplayTitle(),
		})

		when, ok := note.ReminderTime()
		if !ok {
			continue
		}
		title := note.Title
		if title == "" {
			title = "Reminder"
		}
		reminderKey := DateKey(when)
		grouped[reminderKey] = append(grouped[reminderKey], CalendarItem{
			Kind:   CalendarItemReminder,
			NoteID: note.ID,
			Title:  title,
			Time:   when.Format("15:04"),
		})
	}

	for key, items := range grouped {
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Kind != items[j].Kind {
				return items[i].Kind == CalendarItemReminder
			}
			if items[i].Kind == CalendarItemReminder {
				return items[i].Time < items[j].Time
			}
			return false
		})
		grouped[key] = items
	}
	return grouped
}

// MonthGrid builds the fixed 42-cell grid (six Sunday-first weeks)
// covering the given month, with leading and trailing days from the
// adjacent months.
func MonthGrid(collection []Note, year int, month time.Month) []CalendarCell {
	grouped := ItemsByDate(collection)

	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	start := firstOfMonth.AddDate(0, 0, -int(firstOfMonth.Weekday()))

	cells := make([]CalendarCell, 0, 42)
	for i := 0; i < 42; i++ {
		day := start.AddDate(0, 0, i)
		key := DateKey(day)
		cells = append(cells, CalendarCell{
			Date:    day,
			Key:     key,
			InMonth: day.Month() == month && day.Year() == year,
			Items:   grouped[key],
		})
	}
	return cells
}

// PrevMonth steps the (year, month) cursor back one month.
func PrevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// NextMonth steps the (year, month) cursor forward one month.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// MonthLabel renders the cursor for a toolbar, e.g. "August 2026".
func MonthLabel(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.Local).Format("January 2006")
}
