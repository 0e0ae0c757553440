package service

import (
	"context"
	"time"

	apperrors "studytrack/backend/internal/errors"
	"studytrack/backend/internal/repository"
	"studytrack/backend/internal/timer"
)

type StatsService struct {
	ledgerRepo *repository.LedgerRepository
	taskRepo   *repository.TaskRepository
}

func NewStatsService(ledgerRepo *repository.LedgerRepository, taskRepo *repository.TaskRepository) *StatsService {
	return &StatsService{ledgerRepo: ledgerRepo, taskRepo: taskRepo}
}

// DailyTotal is hours studied on one date, with the per-subject split
// preserved for stacked charts.
type DailyTotal struct {
	Date     string             `json:"date"`
	Hours    float64            `json:"hours"`
	Subjects map[string]float64 `json:"subjects"`
}

// TaskSummary is the completion state of the user's task list.
type TaskSummary struct {
	Open int `json:"open"`
	Done int `json:"done"`
}

// Daily aggregates ledger rows by date over [from, to]. Empty bounds
// default to the last 7 days.
func (s *StatsService) Daily(ctx context.Context, userID, from, to string) ([]DailyTotal, *apperrors.APIError) {
	now := time.Now().UTC()
	if to == "" {
		to = now.Format(timer.DateLayout)
	}
	if from == "" {
		from = now.AddDate(0, 0, -6).Format(timer.DateLayout)
	}
	if _, err := time.Parse(timer.DateLayout, from); err != nil {
		return nil, apperrors.BadRequest("invalid_date", "from must be YYYY-MM-DD")
	}
	if _, err := time.Parse(timer.DateLayout, to); err != nil {
		return nil, apperrors.BadRequest("invalid_date", "to must be YYYY-MM-DD")
	}

	records, err := s.ledgerRepo.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, apperrors.Internal("failed to load study time")
	}

	totals := make([]DailyTotal, 0)
	for _, record := range records {
		if len(totals) == 0 || totals[len(totals)-1].Date != record.Date {
			totals = append(totals, DailyTotal{Date: record.Date, Subjects: map[string]float64{}})
		}
		day := &totals[len(totals)-1]
		day.Hours += record.Hours
		day.Subjects[record.Subject] += record.Hours
	}
	return totals, nil
}

// SubjectAllocation returns the all-time hours studied per subject.
func (s *StatsService) SubjectAllocation(ctx context.Context, userID string) (map[string]float64, *apperrors.APIError) {
	totals, err := s.ledgerRepo.TotalsBySubject(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load subject totals")
	}
	return totals, nil
}

// Tasks summarizes task completion, optionally for one category.
func (s *StatsService) Tasks(ctx context.Context, userID, category string) (*TaskSummary, *apperrors.APIError) {
	open, done, err := s.taskRepo.CountByCompletion(ctx, userID, category)
	if err != nil {
		return nil, apperrors.Internal("failed to count tasks")
	}
	return &TaskSummary{Open: open, Done: done}, nil
}
