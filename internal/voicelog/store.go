package voicelog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jananicare/server/internal/reminders"
)

// Store handles voice log persistence
type Store struct {
	db *gorm.DB
}

// NewStore creates a new voice log store
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&VoiceLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate voice log schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Create persists a new voice log entry
func (s *Store) Create(log *VoiceLog) error {
	if log.ID == "" {
		log.ID = "vlog_" + uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	symptomsJSON, _ := json.Marshal(emptyIfNil(log.Symptoms))
	log.SymptomsJSON = string(symptomsJSON)
	concernsJSON, _ := json.Marshal(emptyIfNil(log.Concerns))
	log.ConcernsJSON = string(concernsJSON)

	return s.db.Create(log).Error
}

// Recent returns a user's logs created on or after since, newest first
func (s *Store) Recent(userID string, since time.Time, limit int) ([]VoiceLog, error) {
	query := s.db.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var logs []VoiceLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}

	for i := range logs {
		if logs[i].SymptomsJSON != "" {
			json.Unmarshal([]byte(logs[i].SymptomsJSON), &logs[i].Symptoms)
		}
		if logs[i].ConcernsJSON != "" {
			json.Unmarshal([]byte(logs[i].ConcernsJSON), &logs[i].Concerns)
		}
	}

	return logs, nil
}

// RecentContext returns recent logs shaped for the reminder generator. It
// implements reminders.LogProvider.
func (s *Store) RecentContext(userID string, since time.Time, limit int) ([]reminders.LogContext, error) {
	logs, err := s.Recent(userID, since, limit)
	if err != nil {
		return nil, err
	}

	contexts := make([]reminders.LogContext, 0, len(logs))
	for _, log := range logs {
		contexts = append(contexts, reminders.LogContext{
			Transcript: log.Transcript,
			Week:       log.Week,
			Symptoms:   emptyIfNil(log.Symptoms),
			Date:       log.CreatedAt.Format("2006-01-02"),
			Mood:       log.Mood,
			Concerns:   emptyIfNil(log.Concerns),
		})
	}
	return contexts, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
