package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"milka-pos/internal/domain"
)

func newTestReportService(repo *mockSaleRepository, now time.Time) *reportService {
	nairobi := time.FixedZone("EAT", 3*60*60)
	return &reportService{
		saleRepo: repo,
		location: nairobi,
		now:      func() time.Time { return now },
	}
}

func TestDailyReportDefaultsToLocalToday(t *testing.T) {
	repo := newMockSaleRepository(nil)
	// 22:30 UTC on the 13th is already the 14th in Nairobi
	service := newTestReportService(repo, time.Date(2026, 10, 13, 22, 30, 0, 0, time.UTC))

	report, err := service.Daily(context.Background(), "")
	if err != nil {
		t.Fatalf("Failed to build report: %v", err)
	}

	if report.Date != "2026-10-14" {
		t.Errorf("Expected 2026-10-14, got %s", report.Date)
	}

	wantFrom := time.Date(2026, 10, 13, 21, 0, 0, 0, time.UTC)
	if !repo.from.Equal(wantFrom) || !repo.to.Equal(wantFrom.Add(24*time.Hour)) {
		t.Errorf("Unexpected window [%s, %s)", repo.from, repo.to)
	}
}

func TestDailyReportForGivenDate(t *testing.T) {
	repo := newMockSaleRepository(nil)
	service := newTestReportService(repo, time.Now())

	report, err := service.Daily(context.Background(), "2026-01-31")
	if err != nil {
		t.Fatalf("Failed to build report: %v", err)
	}

	if report.Date != "2026-01-31" {
		t.Errorf("Expected 2026-01-31, got %s", report.Date)
	}
	if repo.to.Sub(repo.from) != 24*time.Hour {
		t.Errorf("Expected a one day window, got %s", repo.to.Sub(repo.from))
	}
}

func TestDailyReportRejectsMalformedDate(t *testing.T) {
	service := newTestReportService(newMockSaleRepository(nil), time.Now())

	for _, date := range []string{"14-10-2026", "2026-13-01", "yesterday"} {
		if _, err := service.Daily(context.Background(), date); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("Expected ErrInvalidDate for %q, got %v", date, err)
		}
	}
}

func TestDailyReportSummarizesLines(t *testing.T) {
	repo := newMockSaleRepository(nil)
	repo.lines = []*domain.ReportLine{
		{ProductID: 1, ProductName: "Soap", TotalQuantitySold: 7, TotalSalesAmount: 350, NumberOfSales: 2},
	}
	service := newTestReportService(repo, time.Now())

	report, err := service.Daily(context.Background(), "")
	if err != nil {
		t.Fatalf("Failed to build report: %v", err)
	}

	if report.Summary.TotalSalesAmount != 350 || report.Summary.ProductsCount != 1 {
		t.Errorf("Unexpected summary %+v", report.Summary)
	}
}

func TestDailyReportWrapsErrors(t *testing.T) {
	repo := newMockSaleRepository(nil)
	repo.listErr = errDatabaseDown

	_, err := newTestReportService(repo, time.Now()).Daily(context.Background(), "")
	if !errors.Is(err, errDatabaseDown) {
		t.Errorf("Expected wrapped database error, got %v", err)
	}
}
