package commission

import (
	"github.com/shopspring/decimal"

	"cyclebay/backend/internal/domain"
)

// ReportRow is the display-ready summary of one salesperson's period
// activity. Amounts carry two decimal places; the full-precision totals stay
// on the underlying CommissionReport.
type ReportRow struct {
	SalespersonID   int64           `json:"salespersonId"`
	SalespersonName string          `json:"salespersonName"`
	TotalSales      decimal.Decimal `json:"totalSales"`
	TotalCommission decimal.Decimal `json:"totalCommission"`
	NumberOfSales   int             `json:"numberOfSales"`
}

// DetailLine is one contributing sale in the drill-down view.
type DetailLine struct {
	SaleID       int64           `json:"saleId"`
	Date         domain.Date     `json:"date"`
	ProductName  string          `json:"productName"`
	CustomerName string          `json:"customerName"`
	SalePrice    decimal.Decimal `json:"salePrice"`
	Commission   decimal.Decimal `json:"commission"`
}

// DetailView is the drill-down for a single salesperson. TotalSales and
// TotalCommission form the footer and always equal the corresponding
// summary row, since both round the same full-precision totals once.
type DetailView struct {
	SalespersonID   int64           `json:"salespersonId"`
	SalespersonName string          `json:"salespersonName"`
	Lines           []DetailLine    `json:"lines"`
	TotalSales      decimal.Decimal `json:"totalSales"`
	TotalCommission decimal.Decimal `json:"totalCommission"`
}

func Summarize(reports []domain.CommissionReport) []ReportRow {
	rows := make([]ReportRow, 0, len(reports))
	for _, report := range reports {
		rows = append(rows, ReportRow{
			SalespersonID:   report.SalespersonID,
			SalespersonName: report.SalespersonName,
			TotalSales:      report.TotalSales.Round(2),
			TotalCommission: report.TotalCommission.Round(2),
			NumberOfSales:   report.NumberOfSales,
		})
	}
	return rows
}

func Details(report domain.CommissionReport) DetailView {
	lines := make([]DetailLine, 0, len(report.SalesDetails))
	for _, sale := range report.SalesDetails {
		lines = append(lines, DetailLine{
			SaleID:       sale.ID,
			Date:         sale.Date,
			ProductName:  sale.Product.Name,
			CustomerName: sale.Customer.DisplayName(),
			SalePrice:    sale.Product.SalePrice.Round(2),
			Commission:   sale.Commission().Round(2),
		})
	}
	return DetailView{
		SalespersonID:   report.SalespersonID,
		SalespersonName: report.SalespersonName,
		Lines:           lines,
		TotalSales:      report.TotalSales.Round(2),
		TotalCommission: report.TotalCommission.Round(2),
	}
}
