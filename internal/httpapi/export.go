package httpapi

import (
	"fmt"
	"html/template"
	"strings"

	"cyclebay/backend/internal/commission"
)

func commissionReportToCSV(period commission.Period, rows []commission.ReportRow) string {
	lines := []string{
		fmt.Sprintf("# commission report,%s", period.String()),
		"salesperson,total_sales,total_commission,number_of_sales",
	}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s,%s,%s,%d",
			csvField(row.SalespersonName),
			row.TotalSales.StringFixed(2),
			row.TotalCommission.StringFixed(2),
			row.NumberOfSales,
		))
	}
	return strings.Join(lines, "\n") + "\n"
}

func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

var printableReportTmpl = template.Must(template.New("commission-report").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Commission Report {{.Period}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
td.num { text-align: right; }
caption { font-size: 1.2rem; font-weight: bold; margin-bottom: 0.8rem; }
</style>
</head>
<body>
<table>
<caption>Commission Report {{.Period}}</caption>
<thead>
<tr><th>Salesperson</th><th>Total Sales</th><th>Total Commission</th><th>Number of Sales</th></tr>
</thead>
<tbody>
{{range .Rows}}<tr><td>{{.Name}}</td><td class="num">{{.TotalSales}}</td><td class="num">{{.TotalCommission}}</td><td class="num">{{.NumberOfSales}}</td></tr>
{{else}}<tr><td colspan="4">No sales recorded for this period.</td></tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

type printableRow struct {
	Name            string
	TotalSales      string
	TotalCommission string
	NumberOfSales   int
}

func commissionReportToPrintableHTML(period commission.Period, rows []commission.ReportRow) string {
	data := struct {
		Period string
		Rows   []printableRow
	}{Period: period.String()}
	for _, row := range rows {
		data.Rows = append(data.Rows, printableRow{
			Name:            row.SalespersonName,
			TotalSales:      row.TotalSales.StringFixed(2),
			TotalCommission: row.TotalCommission.StringFixed(2),
			NumberOfSales:   row.NumberOfSales,
		})
	}

	var buf strings.Builder
	if err := printableReportTmpl.Execute(&buf, data); err != nil {
		return "<!doctype html><html><body>report unavailable</body></html>"
	}
	return buf.String()
}
