package reminders

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jananicare/server/internal/metrics"
)

// GuidanceClient is the external AI collaborator that turns recent voice-log
// context into candidate reminders
type GuidanceClient interface {
	GenerateReminders(ctx context.Context, userID string, logs []LogContext, profile Profile) ([]ReminderItem, error)
}

// LogProvider supplies recent voice-log context for a user
type LogProvider interface {
	RecentContext(userID string, since time.Time, limit int) ([]LogContext, error)
}

// Generator produces a week's reminder list, either from the guidance
// service or from the fixed fallback set
type Generator struct {
	client GuidanceClient
	logger *zap.Logger
}

// NewGenerator creates a generator. A nil client always falls back.
func NewGenerator(client GuidanceClient, logger *zap.Logger) *Generator {
	return &Generator{client: client, logger: logger}
}

// Generate returns the reminder list for a week along with whether the
// guidance path produced it. Guidance failures and empty responses are
// absorbed here: the caller always receives a usable list.
func (g *Generator) Generate(ctx context.Context, userID string, logs []LogContext, profile Profile) ([]ReminderItem, bool) {
	if g.client == nil {
		metrics.GenerationsTotal.WithLabelValues("fallback").Inc()
		return FallbackReminders(), false
	}

	items, err := g.client.GenerateReminders(ctx, userID, logs, profile)
	if err != nil {
		g.logger.Warn("Guidance generation failed, using fallback set",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		metrics.GenerationsTotal.WithLabelValues("fallback").Inc()
		return FallbackReminders(), false
	}

	if len(items) == 0 {
		g.logger.Warn("Guidance returned no reminders, using fallback set",
			zap.String("user_id", userID),
		)
		metrics.GenerationsTotal.WithLabelValues("fallback").Inc()
		return FallbackReminders(), false
	}

	// Categories and priorities are stored exactly as returned; only a
	// missing icon gets a default.
	for i := range items {
		if items[i].Icon == "" {
			items[i].Icon = DefaultIcon
		}
	}

	metrics.GenerationsTotal.WithLabelValues("ai").Inc()
	return items, true
}

// FallbackReminders returns the fixed deterministic reminder set used when
// the guidance service is unavailable. Identical for all users and weeks;
// ids, texts, categories, and priorities are load-bearing for clients and
// must not change.
func FallbackReminders() []ReminderItem {
	return []ReminderItem{
		{
			ID:       "reminder_1",
			Text:     "Take prenatal vitamins with breakfast",
			Category: CategoryMedication,
			Icon:     DefaultIcon,
			Priority: PriorityHigh,
		},
		{
			ID:       "reminder_2",
			Text:     "Drink 8-10 glasses of water throughout the day",
			Category: CategoryNutrition,
			Icon:     DefaultIcon,
			Priority: PriorityHigh,
		},
		{
			ID:       "reminder_3",
			Text:     "20-minute gentle walk or prenatal yoga",
			Category: CategoryExercise,
			Icon:     DefaultIcon,
			Priority: PriorityMedium,
		},
		{
			ID:       "reminder_4",
			Text:     "Monitor baby movements and kick counts",
			Category: CategoryMonitoring,
			Icon:     DefaultIcon,
			Priority: PriorityMedium,
		},
		{
			ID:       "reminder_5",
			Text:     "Schedule next prenatal checkup appointment",
			Category: CategoryAppointment,
			Icon:     DefaultIcon,
			Priority: PriorityMedium,
		},
	}
}
