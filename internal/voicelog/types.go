package voicelog

import (
	"time"
)

// VoiceLog is one daily voice update. Transcript parsing (symptom, mood, and
// concern extraction) happens upstream in the AI pipeline; entries arrive
// here with the parsed fields already populated.
type VoiceLog struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"index"`

	Transcript string `json:"transcript"`
	Week       int    `json:"week,omitempty"` // pregnancy week at recording time

	Mood          string   `json:"mood,omitempty"`
	Symptoms      []string `json:"symptoms" gorm:"-"`
	SymptomsJSON  string   `json:"-" gorm:"type:text"`
	Concerns      []string `json:"concerns" gorm:"-"`
	ConcernsJSON  string   `json:"-" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
