package commission

import (
	"testing"

	"github.com/shopspring/decimal"

	"cyclebay/backend/internal/domain"
)

func TestSummarizeRoundsToCents(t *testing.T) {
	reports := []domain.CommissionReport{
		{
			SalespersonID:   1,
			SalespersonName: "Jane Smith",
			TotalSales:      decimal.RequireFromString("1199.985"),
			TotalCommission: decimal.RequireFromString("89.99887"),
			NumberOfSales:   3,
		},
	}

	rows := Summarize(reports)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0].TotalSales.String(); got != "1199.99" {
		t.Fatalf("TotalSales = %s, want 1199.99", got)
	}
	if got := rows[0].TotalCommission.String(); got != "90" {
		t.Fatalf("TotalCommission = %s, want 90", got)
	}
	if rows[0].NumberOfSales != 3 {
		t.Fatalf("NumberOfSales = %d, want 3", rows[0].NumberOfSales)
	}
}

func TestDetailsFooterMatchesSummaryRow(t *testing.T) {
	p := bike(10, "1199.99", "7.5")
	report := domain.CommissionReport{
		SalespersonID:   1,
		SalespersonName: "Jane Smith",
		TotalSales:      decimal.RequireFromString("2399.98"),
		TotalCommission: decimal.RequireFromString("179.9985"),
		NumberOfSales:   2,
		SalesDetails: []domain.Sale{
			sale(1, 1, p, domain.NewDate(2025, 11, 11)),
			sale(2, 1, p, domain.NewDate(2025, 10, 3)),
		},
	}

	row := Summarize([]domain.CommissionReport{report})[0]
	view := Details(report)

	if !view.TotalSales.Equal(row.TotalSales) {
		t.Fatalf("footer TotalSales %s != summary %s", view.TotalSales, row.TotalSales)
	}
	if !view.TotalCommission.Equal(row.TotalCommission) {
		t.Fatalf("footer TotalCommission %s != summary %s", view.TotalCommission, row.TotalCommission)
	}
	if len(view.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(view.Lines))
	}

	line := view.Lines[0]
	if line.ProductName != "Trailblazer" || line.CustomerName != "Pat Doe" {
		t.Fatalf("unexpected line: %+v", line)
	}
	// 1199.99 * 7.5% = 89.99925, displayed as 90.
	if got := line.Commission.String(); got != "90" {
		t.Fatalf("line commission = %s, want 90", got)
	}
}
