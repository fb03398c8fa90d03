package reminders

import "errors"

var (
	// ErrDuplicateWeek means a record already exists for the same user and
	// overlapping week. Callers should re-fetch rather than retry the write.
	ErrDuplicateWeek = errors.New("reminder record already exists for this week")

	// ErrNoRecordForWeek means a completion was requested before any record
	// exists for the current week. Completion marking never creates records.
	ErrNoRecordForWeek = errors.New("no reminder record found for this week")

	// ErrUnknownReminder means the completion referenced a reminder id that
	// is not part of the record.
	ErrUnknownReminder = errors.New("reminder id not found in this week's record")
)
