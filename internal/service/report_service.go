package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"milka-pos/internal/domain"
	"milka-pos/internal/repository"
)

// DateLayout is the format of report dates
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")
)

// ReportService defines the interface for sales reporting
type ReportService interface {
	// Daily reports the given day, or today when date is empty
	Daily(ctx context.Context, date string) (*domain.DailyReport, error)
}

type reportService struct {
	saleRepo repository.SaleRepository
	location *time.Location
	now      func() time.Time
}

// NewReportService creates a new instance of ReportService. Days are
// delimited in the process local time zone.
func NewReportService(saleRepo repository.SaleRepository) ReportService {
	return &reportService{
		saleRepo: saleRepo,
		location: time.Local,
		now:      time.Now,
	}
}

func (s *reportService) Daily(ctx context.Context, date string) (*domain.DailyReport, error) {
	start, err := s.dayStart(date)
	if err != nil {
		return nil, err
	}
	end := start.AddDate(0, 0, 1)

	lines, err := s.saleRepo.DailySummary(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build daily report: %w", err)
	}

	return domain.NewDailyReport(start.Format(DateLayout), lines), nil
}

func (s *reportService) dayStart(date string) (time.Time, error) {
	if date == "" {
		now := s.now().In(s.location)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location), nil
	}

	day, err := time.ParseInLocation(DateLayout, date, s.location)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return day, nil
}
