package reminders

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jananicare/server/internal/metrics"
)

// Service orchestrates weekly reminder generation, completion tracking, and
// the scheduled sweep. All collaborators are injected; there are no ambient
// singletons.
type Service struct {
	store  *Store
	logs   LogProvider
	gen    *Generator
	logger *zap.Logger

	// Paces guidance calls during the batch sweep
	sweepLimiter *rate.Limiter

	// Serializes mutations per (user, week) so concurrent completion marks
	// cannot lose updates to the completions list
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewService creates the reminder service. sweepRPM bounds how many users
// per minute the batch sweep processes.
func NewService(store *Store, logs LogProvider, gen *Generator, sweepRPM int, logger *zap.Logger) *Service {
	if sweepRPM <= 0 {
		sweepRPM = 60
	}
	return &Service{
		store:        store,
		logs:         logs,
		gen:          gen,
		logger:       logger,
		sweepLimiter: rate.NewLimiter(rate.Limit(float64(sweepRPM)/60.0), 1),
		locks:        make(map[string]*sync.Mutex),
	}
}

// CheckResult is the outcome of a check-and-generate pass. Err being set
// means the result is degraded (fallback reminders, compliance 0), never
// that the caller got nothing.
type CheckResult struct {
	Record      *ReminderRecord
	Generated   bool
	Existing    bool
	BasedOnLogs int
	Err         error
}

// CheckAndGenerate ensures a record exists for the user's current week.
// Hit: recompute compliance and save. Miss: gather trailing-week log
// context, generate, and persist. A lost creation race re-fetches the
// winner. Reads never hard-fail; on storage errors the result carries the
// fallback list and the error as metadata.
func (s *Service) CheckAndGenerate(ctx context.Context, userID string, pregnancyWeek int) *CheckResult {
	now := time.Now()
	weekStart, weekEnd := CurrentWeekWindow(now)

	lock := s.recordLock(userID, weekStart)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.FindForWeek(userID, weekStart, weekEnd)
	if err != nil {
		s.logger.Error("Reminder lookup failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return s.degraded(userID, weekStart, weekEnd, err)
	}

	if existing != nil {
		existing.CalculateCompliance()
		if err := s.store.Save(existing); err != nil {
			s.logger.Error("Failed to save recomputed compliance",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			return &CheckResult{Record: existing, Existing: true, Err: err}
		}
		metrics.ReadsTotal.WithLabelValues("existing").Inc()
		return &CheckResult{Record: existing, Existing: true}
	}

	// Generation and the persist that follows must complete even if the
	// caller disconnects, so the record exists for the next reader.
	genCtx := context.WithoutCancel(ctx)

	logCtx := s.gatherLogs(userID, now)

	if pregnancyWeek <= 0 {
		pregnancyWeek = DefaultPregnancyWeek
	}
	profile := Profile{
		PregnancyWeek: pregnancyWeek,
		Conditions:    []string{},
	}

	items, aiGenerated := s.gen.Generate(genCtx, userID, logCtx, profile)

	rec := &ReminderRecord{
		UserID:            userID,
		WeekStart:         weekStart,
		WeekEnd:           weekEnd,
		Reminders:         items,
		Completions:       []CompletionMark{},
		AIGenerated:       aiGenerated,
		BasedOnSymptoms:   uniqueSymptoms(logCtx),
		BasedOnConditions: profile.Conditions,
	}
	rec.CalculateCompliance()

	if err := s.store.Create(rec); err != nil {
		if errors.Is(err, ErrDuplicateWeek) {
			// Lost the race; return the winner's record.
			winner, ferr := s.store.FindForWeek(userID, weekStart, weekEnd)
			if ferr == nil && winner != nil {
				metrics.ReadsTotal.WithLabelValues("existing").Inc()
				return &CheckResult{Record: winner, Existing: true}
			}
			// Winner not visible on re-fetch: keep the duplicate error so the
			// result stays degraded instead of success-shaped.
			if ferr != nil {
				err = ferr
			}
		}
		s.logger.Error("Failed to persist generated reminders",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return s.degraded(userID, weekStart, weekEnd, err)
	}

	s.logger.Info("Generated weekly reminders",
		zap.String("user_id", userID),
		zap.Int("reminders", len(items)),
		zap.Bool("ai_generated", aiGenerated),
		zap.Int("based_on_logs", len(logCtx)),
	)
	metrics.ReadsTotal.WithLabelValues("generated").Inc()

	return &CheckResult{Record: rec, Generated: true, BasedOnLogs: len(logCtx)}
}

// MarkComplete records a completion mark for one reminder on asOf's calendar
// day, overwriting any existing mark for that (reminder, day) pair, and
// recomputes compliance. It never creates a record: a read must have
// happened first in the normal flow. Returns the saved record and the count
// of completed marks on asOf's day.
func (s *Service) MarkComplete(userID, reminderID string, completed bool, asOf time.Time) (*ReminderRecord, int, error) {
	weekStart, weekEnd := CurrentWeekWindow(asOf)

	lock := s.recordLock(userID, weekStart)
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.store.FindForWeek(userID, weekStart, weekEnd)
	if err != nil {
		return nil, 0, err
	}
	if rec == nil {
		return nil, 0, ErrNoRecordForWeek
	}

	if rec.Item(reminderID) == nil {
		return nil, 0, ErrUnknownReminder
	}

	today := dayKey(asOf)
	now := time.Now()

	found := false
	for i := range rec.Completions {
		mark := &rec.Completions[i]
		if mark.ReminderID == reminderID && dayKey(mark.Date) == today {
			mark.Completed = completed
			if completed {
				mark.CompletedAt = &now
			} else {
				mark.CompletedAt = nil
			}
			found = true
			break
		}
	}
	if !found {
		mark := CompletionMark{
			ReminderID: reminderID,
			Date:       asOf,
			Completed:  completed,
		}
		if completed {
			mark.CompletedAt = &now
		}
		rec.Completions = append(rec.Completions, mark)
	}

	rec.CalculateCompliance()

	if err := s.store.Save(rec); err != nil {
		return nil, 0, err
	}

	todayCompleted := 0
	for _, mark := range rec.Completions {
		if mark.Completed && dayKey(mark.Date) == today {
			todayCompleted++
		}
	}

	metrics.CompletionsTotal.Inc()
	return rec, todayCompleted, nil
}

// HistorySummary aggregates a user's reminder history
type HistorySummary struct {
	TotalWeeks        int `json:"total_weeks"`
	AverageCompliance int `json:"average_compliance"`
	WeeksRequested    int `json:"weeks_requested"`
}

// History returns the user's records from the past weeksBack weeks, newest
// first, with summary statistics
func (s *Service) History(userID string, weeksBack int) ([]ReminderRecord, HistorySummary, error) {
	if weeksBack <= 0 {
		weeksBack = 4
	}
	since := time.Now().AddDate(0, 0, -weeksBack*7)

	recs, err := s.store.HistoryForUser(userID, since)
	if err != nil {
		return nil, HistorySummary{}, err
	}

	summary := HistorySummary{
		TotalWeeks:     len(recs),
		WeeksRequested: weeksBack,
	}
	if len(recs) > 0 {
		sum := 0
		for _, r := range recs {
			sum += r.CompliancePercentage
		}
		summary.AverageCompliance = int(math.Round(float64(sum) / float64(len(recs))))
	}

	return recs, summary, nil
}

// SweepStats reports a batch sweep's outcome
type SweepStats struct {
	Processed int    `json:"processed"`
	Generated int    `json:"generated"`
	Existing  int    `json:"existing"`
	Errors    int    `json:"errors"`
	Error     string `json:"error,omitempty"`
}

// RunForAllUsers sweeps every user with at least one historical record
// through CheckAndGenerate, sequentially. Per-user failures are counted, not
// propagated. Users with no history are only ever served by the per-request
// path.
func (s *Service) RunForAllUsers(ctx context.Context) SweepStats {
	metrics.SweepRunsTotal.Inc()

	userIDs, err := s.store.DistinctUserIDs()
	if err != nil {
		s.logger.Error("Sweep user discovery failed", zap.Error(err))
		metrics.SweepErrorsTotal.Inc()
		return SweepStats{Errors: 1, Error: err.Error()}
	}

	stats := SweepStats{}
	for _, userID := range userIDs {
		if err := s.sweepLimiter.Wait(ctx); err != nil {
			stats.Error = err.Error()
			break
		}

		result := s.CheckAndGenerate(ctx, userID, 0)
		stats.Processed++
		switch {
		case result.Err != nil:
			stats.Errors++
			metrics.SweepErrorsTotal.Inc()
		case result.Generated:
			stats.Generated++
		case result.Existing:
			stats.Existing++
		}
	}

	s.logger.Info("Scheduled reminder sweep complete",
		zap.Int("processed", stats.Processed),
		zap.Int("generated", stats.Generated),
		zap.Int("existing", stats.Existing),
		zap.Int("errors", stats.Errors),
	)
	return stats
}

// degraded builds a never-fail read response: fallback reminders, zero
// compliance, the error attached as metadata. The record is not persisted.
func (s *Service) degraded(userID string, weekStart, weekEnd time.Time, err error) *CheckResult {
	rec := &ReminderRecord{
		UserID:            userID,
		WeekStart:         weekStart,
		WeekEnd:           weekEnd,
		Reminders:         FallbackReminders(),
		Completions:       []CompletionMark{},
		BasedOnSymptoms:   []string{},
		BasedOnConditions: []string{},
	}
	return &CheckResult{Record: rec, Err: err}
}

func (s *Service) gatherLogs(userID string, now time.Time) []LogContext {
	if s.logs == nil {
		return nil
	}

	since := now.AddDate(0, 0, -7)
	logCtx, err := s.logs.RecentContext(userID, since, 10)
	if err != nil {
		// Missing context degrades generation quality, not availability.
		s.logger.Warn("Failed to gather recent logs",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil
	}
	return logCtx
}

func (s *Service) recordLock(userID string, weekStart time.Time) *sync.Mutex {
	key := userID + "|" + weekStart.Format("2006-01-02")

	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	if lock, ok := s.locks[key]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	s.locks[key] = lock
	return lock
}

func uniqueSymptoms(logs []LogContext) []string {
	seen := make(map[string]bool)
	symptoms := []string{}
	for _, log := range logs {
		for _, symptom := range log.Symptoms {
			if symptom != "" && !seen[symptom] {
				seen[symptom] = true
				symptoms = append(symptoms, symptom)
			}
		}
	}
	return symptoms
}
