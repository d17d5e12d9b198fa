package notes

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// defaultReminderTime is the time of day assumed when the caller supplies
// a date without a time.
const defaultReminderTime = "09:00"

// CreateReminderInput is the payload for Store.CreateReminder. Date is
// required; Time, Title, and LinkToNoteID are optional.
type CreateReminderInput struct {
	Date         string
	Time         string
	Title        string
	LinkToNoteID string
}

// Validate checks the date and time shapes. A failed validation makes
// CreateReminder refuse with its null sentinel; the presentation layer
// decides whether to surface the reason.
func (in CreateReminderInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&in.Time, validation.Date("15:04")),
	)
}

// composeISO builds the reminder datetime as date + "T" + time, defaulting
// the time of day when none was given.
func (in CreateReminderInput) composeISO() string {
	timeOfDay := strings.TrimSpace(in.Time)
	if timeOfDay == "" {
		timeOfDay = defaultReminderTime
	}
	return strings.TrimSpace(in.Date) + "T" + timeOfDay
}
