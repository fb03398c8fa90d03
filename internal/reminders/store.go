package reminders

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store handles reminder record persistence
type Store struct {
	db *gorm.DB
}

// NewStore creates a new reminder store
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&ReminderRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate reminder schema: %w", err)
	}
	return &Store{db: db}, nil
}

// FindForWeek returns the record whose stored window overlaps the requested
// one, or nil if none exists. Overlap rather than exact equality tolerates
// clock skew between the read and write paths; the unique (user_id,
// week_start) index keeps the tolerance from minting duplicates.
func (s *Store) FindForWeek(userID string, weekStart, weekEnd time.Time) (*ReminderRecord, error) {
	var rec ReminderRecord
	err := s.db.Where("user_id = ? AND week_start <= ? AND week_end >= ?", userID, weekEnd, weekStart).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.unpack()
	return &rec, nil
}

// Create persists a new record, assigning its id and timestamps. Returns
// ErrDuplicateWeek when a record for the same (user, week start) already
// exists; the caller lost a generation race and should re-fetch.
func (s *Store) Create(rec *ReminderRecord) error {
	if rec.ID == "" {
		rec.ID = "rem_" + uuid.NewString()
	}
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = time.Now()
	rec.pack()

	err := s.db.Create(rec).Error
	if err != nil && isDuplicateErr(err) {
		return ErrDuplicateWeek
	}
	return err
}

// Save persists mutations to an existing record and bumps updated_at
func (s *Store) Save(rec *ReminderRecord) error {
	rec.UpdatedAt = time.Now()
	rec.pack()
	return s.db.Save(rec).Error
}

// DistinctUserIDs returns every user with at least one historical record
func (s *Store) DistinctUserIDs() ([]string, error) {
	var ids []string
	err := s.db.Model(&ReminderRecord{}).Distinct().Pluck("user_id", &ids).Error
	return ids, err
}

// HistoryForUser returns records with week_start on or after since, newest
// week first
func (s *Store) HistoryForUser(userID string, since time.Time) ([]ReminderRecord, error) {
	var recs []ReminderRecord
	err := s.db.Where("user_id = ? AND week_start >= ?", userID, since).
		Order("week_start DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	for i := range recs {
		recs[i].unpack()
	}
	return recs, nil
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
