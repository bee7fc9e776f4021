package commission

import (
	"sort"

	"github.com/shopspring/decimal"

	"cyclebay/backend/internal/domain"
)

// Aggregate computes one CommissionReport per salesperson with activity in
// the period. It is a pure function of its inputs and owns no state.
//
// Sales outside the period are ignored. Salespeople with zero matching sales
// produce no row at all. Rows come back sorted by total commission
// descending; ties keep the salesperson input order. Each row's SalesDetails
// are sorted newest-first; ties keep the sale input order.
//
// Sales whose salesPersonId has no matching record are returned in the
// second value instead of a report row, so the caller can decide how loudly
// to treat the data-integrity gap.
func Aggregate(salespersons []domain.Salesperson, sales []domain.Sale, period Period) ([]domain.CommissionReport, []domain.Sale) {
	known := make(map[int64]struct{}, len(salespersons))
	for _, sp := range salespersons {
		known[sp.ID] = struct{}{}
	}

	grouped := make(map[int64][]domain.Sale)
	var orphaned []domain.Sale
	for _, sale := range sales {
		if !period.Contains(sale.Date) {
			continue
		}
		if _, ok := known[sale.SalesPersonID]; !ok {
			orphaned = append(orphaned, sale)
			continue
		}
		grouped[sale.SalesPersonID] = append(grouped[sale.SalesPersonID], sale)
	}

	reports := make([]domain.CommissionReport, 0, len(grouped))
	for _, sp := range salespersons {
		group := grouped[sp.ID]
		if len(group) == 0 {
			continue
		}

		totalSales := decimal.Zero
		totalCommission := decimal.Zero
		for _, sale := range group {
			totalSales = totalSales.Add(sale.Product.SalePrice)
			totalCommission = totalCommission.Add(sale.Commission())
		}

		details := make([]domain.Sale, len(group))
		copy(details, group)
		sort.SliceStable(details, func(i, j int) bool {
			return details[i].Date.After(details[j].Date)
		})

		reports = append(reports, domain.CommissionReport{
			SalespersonID:   sp.ID,
			SalespersonName: sp.DisplayName(),
			TotalSales:      totalSales,
			TotalCommission: totalCommission,
			NumberOfSales:   len(group),
			SalesDetails:    details,
		})
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].TotalCommission.GreaterThan(reports[j].TotalCommission)
	})

	return reports, orphaned
}
