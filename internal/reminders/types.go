package reminders

import (
	"encoding/json"
	"math"
	"time"
)

// Reminder categories. The guidance service is expected to stay within this
// set but its output is stored as-is, so the constants document intent rather
// than gate writes.
const (
	CategoryMedication  = "medication"
	CategoryCheckup     = "checkup"
	CategoryNutrition   = "nutrition"
	CategoryAppointment = "appointment"
	CategoryExercise    = "exercise"
	CategoryMonitoring  = "monitoring"
)

// Reminder priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// DefaultIcon is applied to items that arrive without one
const DefaultIcon = "💊"

// ReminderItem is a single instruction within a weekly record. Its ID is the
// join key for completion marks and must stay stable for the record's life.
type ReminderItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
	Icon     string `json:"icon,omitempty"`
	Priority string `json:"priority"`
}

// CompletionMark records one reminder's completion state for one calendar day
type CompletionMark struct {
	ReminderID  string     `json:"reminder_id"`
	Date        time.Time  `json:"date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ReminderRecord holds one user's reminders for one calendar week.
// At most one record exists per (user, week start), enforced by a unique
// index so concurrent generation races surface as duplicate-key errors.
type ReminderRecord struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index:idx_user_week,unique"`
	WeekStart time.Time `json:"week_start" gorm:"index:idx_user_week,unique"`
	WeekEnd   time.Time `json:"week_end"`

	Reminders       []ReminderItem   `json:"reminders" gorm:"-"`
	RemindersJSON   string           `json:"-" gorm:"type:text"`
	Completions     []CompletionMark `json:"completions" gorm:"-"`
	CompletionsJSON string           `json:"-" gorm:"type:text"`

	// Derived from Completions; never authoritative on its own.
	CompliancePercentage int `json:"compliance_percentage"`

	AIGenerated       bool     `json:"ai_generated"`
	BasedOnSymptoms   []string `json:"based_on_symptoms" gorm:"-"`
	SymptomsJSON      string   `json:"-" gorm:"type:text"`
	BasedOnConditions []string `json:"based_on_conditions" gorm:"-"`
	ConditionsJSON    string   `json:"-" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WeekStatus describes where "now" falls within a record's week
type WeekStatus struct {
	Active        bool `json:"active"`
	DaysElapsed   int  `json:"days_elapsed,omitempty"`
	DaysRemaining int  `json:"days_remaining"`
	CurrentDay    int  `json:"current_day,omitempty"`
}

// LogContext is the slice of a voice log the guidance service sees
type LogContext struct {
	Transcript string   `json:"transcript"`
	Week       int      `json:"week"`
	Symptoms   []string `json:"symptoms"`
	Date       string   `json:"date"`
	Mood       string   `json:"mood,omitempty"`
	Concerns   []string `json:"concerns,omitempty"`
}

// Profile is the user context supplied to the guidance service
type Profile struct {
	PregnancyWeek int      `json:"pregnancy_week"`
	Conditions    []string `json:"conditions"`
	Age           *int     `json:"age"`
}

// DefaultPregnancyWeek is assumed when the caller does not supply one
const DefaultPregnancyWeek = 20

// CalculateCompliance recomputes the compliance percentage from the current
// completion marks. The denominator is the theoretical weekly maximum of one
// completion per reminder per day for all seven days, regardless of how much
// of the week has elapsed. Idempotent: recomputing without a mutation in
// between yields the same value.
func (r *ReminderRecord) CalculateCompliance() int {
	totalPossible := len(r.Reminders) * 7
	if totalPossible == 0 {
		r.CompliancePercentage = 0
		return 0
	}

	completed := 0
	for _, mark := range r.Completions {
		if mark.Completed {
			completed++
		}
	}

	r.CompliancePercentage = int(math.Round(float64(completed) / float64(totalPossible) * 100))
	return r.CompliancePercentage
}

// WeekStatusAt reports whether now falls inside the record's week and how
// many days have elapsed/remain.
func (r *ReminderRecord) WeekStatusAt(now time.Time) WeekStatus {
	if now.Before(r.WeekStart) || now.After(r.WeekEnd) {
		return WeekStatus{Active: false, DaysRemaining: 0}
	}

	daysElapsed := int(now.Sub(r.WeekStart).Hours()/24) + 1
	return WeekStatus{
		Active:        true,
		DaysElapsed:   daysElapsed,
		DaysRemaining: 7 - daysElapsed,
		CurrentDay:    daysElapsed,
	}
}

// Item returns the reminder with the given id, or nil
func (r *ReminderRecord) Item(id string) *ReminderItem {
	for i := range r.Reminders {
		if r.Reminders[i].ID == id {
			return &r.Reminders[i]
		}
	}
	return nil
}

// pack serializes the slice fields into their text columns
func (r *ReminderRecord) pack() {
	remindersJSON, _ := json.Marshal(r.Reminders)
	r.RemindersJSON = string(remindersJSON)

	completions := r.Completions
	if completions == nil {
		completions = []CompletionMark{}
	}
	completionsJSON, _ := json.Marshal(completions)
	r.CompletionsJSON = string(completionsJSON)

	symptomsJSON, _ := json.Marshal(emptyIfNil(r.BasedOnSymptoms))
	r.SymptomsJSON = string(symptomsJSON)
	conditionsJSON, _ := json.Marshal(emptyIfNil(r.BasedOnConditions))
	r.ConditionsJSON = string(conditionsJSON)
}

// unpack deserializes the text columns back into the slice fields
func (r *ReminderRecord) unpack() {
	if r.RemindersJSON != "" {
		json.Unmarshal([]byte(r.RemindersJSON), &r.Reminders)
	}
	if r.CompletionsJSON != "" {
		json.Unmarshal([]byte(r.CompletionsJSON), &r.Completions)
	}
	if r.Completions == nil {
		r.Completions = []CompletionMark{}
	}
	if r.SymptomsJSON != "" {
		json.Unmarshal([]byte(r.SymptomsJSON), &r.BasedOnSymptoms)
	}
	if r.ConditionsJSON != "" {
		json.Unmarshal([]byte(r.ConditionsJSON), &r.BasedOnConditions)
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
