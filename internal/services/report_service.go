package services

import (
	"context"
	"time"

	"github.com/Thanhfdq/task-app/internal/constants"
	"github.com/Thanhfdq/task-app/internal/repository"
)

// Overview is the dashboard summary of the actor's projects and tasks.
type Overview struct {
	Projects repository.ProjectStats `json:"projects"`
	Tasks    repository.TaskStats    `json:"tasks"`
}

// TrendPoint is the number of tasks completed on one day.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ReportService computes the dashboard aggregates. Every call scans the
// relevant rows.
type ReportService struct {
	reportRepo repository.ReportRepository
	location   *time.Location
}

// NewReportService creates a new ReportService. Completion dates are
// bucketed in the server's local time zone.
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo, location: time.Local}
}

func (s *ReportService) Overview(ctx context.Context, actorID uint64) (*Overview, error) {
	if actorID == 0 {
		return nil, ErrNotAuthenticated
	}
	projects, err := s.reportRepo.ProjectStats(ctx, actorID)
	if err != nil {
		return nil, storageError("failed to count projects", err)
	}
	tasks, err := s.reportRepo.TaskStats(ctx, actorID)
	if err != nil {
		return nil, storageError("failed to count tasks", err)
	}
	return &Overview{Projects: projects, Tasks: tasks}, nil
}

func (s *ReportService) TasksByProject(ctx context.Context, actorID uint64) ([]repository.ProjectTaskCount, error) {
	if actorID == 0 {
		return nil, ErrNotAuthenticated
	}
	rows, err := s.reportRepo.TasksByProject(ctx, actorID)
	if err != nil {
		return nil, storageError("failed to count tasks by project", err)
	}
	return rows, nil
}

// CompletionTrend counts the actor's completed tasks per completion date, ascending.
func (s *ReportService) CompletionTrend(ctx context.Context, actorID uint64) ([]TrendPoint, error) {
	if actorID == 0 {
		return nil, ErrNotAuthenticated
	}
	times, err := s.reportRepo.CompletionTimes(ctx, actorID)
	if err != nil {
		return nil, storageError("failed to load completion dates", err)
	}
	return bucketByDate(times, s.location), nil
}

// bucketByDate expects times in ascending order.
func bucketByDate(times []time.Time, loc *time.Location) []TrendPoint {
	points := []TrendPoint{}
	for _, t := range times {
		day := t.In(loc).Format(constants.DateLayout)
		if n := len(points); n > 0 && points[n-1].Date == day {
			points[n-1].Count++
			continue
		}
		points = append(points, TrendPoint{Date: day, Count: 1})
	}
	return points
}
