package reminders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeGuidance struct {
	items []ReminderItem
	err   error
	calls int
}

func (f *fakeGuidance) GenerateReminders(ctx context.Context, userID string, logs []LogContext, profile Profile) ([]ReminderItem, error) {
	f.calls++
	return f.items, f.err
}

func TestGenerator_GuidanceSuccess(t *testing.T) {
	client := &fakeGuidance{
		items: []ReminderItem{
			{ID: "rem_a", Text: "Eat iron-rich foods", Category: "nutrition", Priority: "high"},
			{ID: "rem_b", Text: "Rest for an hour after lunch", Category: "rest", Priority: "low"},
		},
	}
	gen := NewGenerator(client, zap.NewNop())

	items, aiGenerated := gen.Generate(context.Background(), "user_1", nil, Profile{PregnancyWeek: 20})

	assert.True(t, aiGenerated)
	assert.Equal(t, 1, client.calls)
	assert.Len(t, items, 2)
	// Order and content preserved; categories outside the closed set are
	// stored as returned, not corrected.
	assert.Equal(t, "rem_a", items[0].ID)
	assert.Equal(t, "rest", items[1].Category)
	// Missing icons get the default
	assert.Equal(t, DefaultIcon, items[0].Icon)
}

func TestGenerator_FallbackOnError(t *testing.T) {
	gen := NewGenerator(&fakeGuidance{err: errors.New("connection refused")}, zap.NewNop())

	items, aiGenerated := gen.Generate(context.Background(), "user_1", nil, Profile{})

	assert.False(t, aiGenerated)
	assert.Equal(t, FallbackReminders(), items)
}

func TestGenerator_FallbackOnEmptyResponse(t *testing.T) {
	gen := NewGenerator(&fakeGuidance{items: []ReminderItem{}}, zap.NewNop())

	items, aiGenerated := gen.Generate(context.Background(), "user_1", nil, Profile{})

	assert.False(t, aiGenerated)
	assert.Equal(t, FallbackReminders(), items)
}

func TestGenerator_NilClientFallsBack(t *testing.T) {
	gen := NewGenerator(nil, zap.NewNop())

	items, aiGenerated := gen.Generate(context.Background(), "user_1", nil, Profile{})

	assert.False(t, aiGenerated)
	assert.Equal(t, FallbackReminders(), items)
}

func TestFallbackReminders_Deterministic(t *testing.T) {
	items := FallbackReminders()

	ids := make([]string, len(items))
	categories := make([]string, len(items))
	priorities := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
		categories[i] = item.Category
		priorities[i] = item.Priority
	}

	assert.Equal(t, []string{"reminder_1", "reminder_2", "reminder_3", "reminder_4", "reminder_5"}, ids)
	assert.Equal(t, []string{
		CategoryMedication, CategoryNutrition, CategoryExercise, CategoryMonitoring, CategoryAppointment,
	}, categories)
	assert.Equal(t, []string{
		PriorityHigh, PriorityHigh, PriorityMedium, PriorityMedium, PriorityMedium,
	}, priorities)
	assert.Equal(t, "Take prenatal vitamins with breakfast", items[0].Text)

	// Identical across calls
	assert.Equal(t, items, FallbackReminders())
}
