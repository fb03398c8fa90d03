package reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func weekRecord(marks int) *ReminderRecord {
	start, end := CurrentWeekWindow(time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC))
	rec := &ReminderRecord{
		UserID:    "user_1",
		WeekStart: start,
		WeekEnd:   end,
		Reminders: FallbackReminders(),
	}

	day := start
	for i := 0; i < marks; i++ {
		reminderID := rec.Reminders[i%len(rec.Reminders)].ID
		if i > 0 && i%len(rec.Reminders) == 0 {
			day = day.AddDate(0, 0, 1)
		}
		now := time.Now()
		rec.Completions = append(rec.Completions, CompletionMark{
			ReminderID:  reminderID,
			Date:        day,
			Completed:   true,
			CompletedAt: &now,
		})
	}

	return rec
}

func TestCalculateCompliance_Formula(t *testing.T) {
	// 12 completed marks over 5 reminders: round(100 * 12 / 35) = 34
	rec := weekRecord(12)

	assert.Equal(t, 34, rec.CalculateCompliance())
	assert.Equal(t, 34, rec.CompliancePercentage)
}

func TestCalculateCompliance_Bounds(t *testing.T) {
	assert.Equal(t, 0, weekRecord(0).CalculateCompliance())
	assert.Equal(t, 100, weekRecord(35).CalculateCompliance())

	empty := &ReminderRecord{}
	assert.Equal(t, 0, empty.CalculateCompliance())
}

func TestCalculateCompliance_IgnoresUncompletedMarks(t *testing.T) {
	rec := weekRecord(3)
	rec.Completions = append(rec.Completions, CompletionMark{
		ReminderID: "reminder_4",
		Date:       rec.WeekStart,
		Completed:  false,
	})

	// 3 of 35: round(8.57) = 9
	assert.Equal(t, 9, rec.CalculateCompliance())
}

func TestCalculateCompliance_Idempotent(t *testing.T) {
	rec := weekRecord(12)

	first := rec.CalculateCompliance()
	second := rec.CalculateCompliance()

	assert.Equal(t, first, second)
}

func TestWeekStatusAt(t *testing.T) {
	rec := weekRecord(0)

	// Day 4 (Wednesday) of the Sunday-anchored week
	wednesday := rec.WeekStart.AddDate(0, 0, 3).Add(10 * time.Hour)
	status := rec.WeekStatusAt(wednesday)
	assert.True(t, status.Active)
	assert.Equal(t, 4, status.DaysElapsed)
	assert.Equal(t, 3, status.DaysRemaining)

	// Outside the window
	status = rec.WeekStatusAt(rec.WeekEnd.Add(time.Hour))
	assert.False(t, status.Active)
	assert.Equal(t, 0, status.DaysRemaining)
}

func TestRecordPackUnpack(t *testing.T) {
	rec := weekRecord(2)
	rec.BasedOnSymptoms = []string{"nausea", "fatigue"}
	rec.pack()

	restored := &ReminderRecord{
		RemindersJSON:   rec.RemindersJSON,
		CompletionsJSON: rec.CompletionsJSON,
		SymptomsJSON:    rec.SymptomsJSON,
		ConditionsJSON:  rec.ConditionsJSON,
	}
	restored.unpack()

	assert.Len(t, restored.Reminders, 5)
	assert.Equal(t, "reminder_1", restored.Reminders[0].ID)
	assert.Len(t, restored.Completions, 2)
	assert.Equal(t, []string{"nausea", "fatigue"}, restored.BasedOnSymptoms)
	assert.Equal(t, []string{}, restored.BasedOnConditions)
}
