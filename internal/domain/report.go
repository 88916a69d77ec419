package domain

import "math"

// ReportLine aggregates one product's sales for a day
type ReportLine struct {
	ProductID         int64   `json:"product_id"`
	ProductName       string  `json:"product_name"`
	TotalQuantitySold int     `json:"total_quantity_sold"`
	TotalSalesAmount  float64 `json:"total_sales_amount"`
	NumberOfSales     int     `json:"number_of_sales"`
}

type ReportSummary struct {
	TotalSalesAmount  float64 `json:"total_sales_amount"`
	TotalQuantitySold int     `json:"total_quantity_sold"`
	ProductsCount     int     `json:"products_count"`
}

type DailyReport struct {
	Date     string        `json:"date"`
	Products []*ReportLine `json:"products"`
	Summary  ReportSummary `json:"summary"`
}

// NewDailyReport derives the summary from lines so the two can never disagree
func NewDailyReport(date string, lines []*ReportLine) *DailyReport {
	if lines == nil {
		lines = []*ReportLine{}
	}

	var summary ReportSummary
	for _, line := range lines {
		summary.TotalSalesAmount += line.TotalSalesAmount
		summary.TotalQuantitySold += line.TotalQuantitySold
	}
	summary.TotalSalesAmount = RoundCents(summary.TotalSalesAmount)
	summary.ProductsCount = len(lines)

	return &DailyReport{
		Date:     date,
		Products: lines,
		Summary:  summary,
	}
}

// RoundCents rounds a currency amount to two decimal places
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
