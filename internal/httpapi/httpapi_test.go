package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cyclebay/backend/internal/service"
	"cyclebay/backend/internal/store/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New(memory.NewSeeded(), nil, time.Minute)
	server := httptest.NewServer(New(svc, "http://127.0.0.1:3000").Handler())
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	return resp, decoded
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, server.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["ok"] != true {
		t.Fatalf("body = %v", body)
	}
}

func TestCustomerLifecycle(t *testing.T) {
	server := newTestServer(t)

	resp, created := doJSON(t, http.MethodPost, server.URL+"/api/v1/customers", map[string]any{
		"firstName": "Pat",
		"lastName":  "Doe",
		"address":   "44 Oak Ave",
		"phone":     "555-444-1212",
		"startDate": "2025-02-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d body %v", resp.StatusCode, created)
	}
	id := int64(created["id"].(float64))

	resp, got := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/customers/%d", server.URL, id), nil)
	if resp.StatusCode != http.StatusOK || got["firstName"] != "Pat" {
		t.Fatalf("get status = %d body %v", resp.StatusCode, got)
	}

	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/v1/customers/%d", server.URL, id), map[string]any{
		"firstName": "Pat",
		"lastName":  "Doe",
		"address":   "45 Oak Ave",
		"phone":     "555-444-1212",
		"startDate": "2025-02-01",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/customers/%d", server.URL, id), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/customers/%d", server.URL, id), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", resp.StatusCode)
	}
}

func TestValidationErrorShape(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/v1/customers", map[string]any{
		"firstName": "",
		"lastName":  "Doe",
		"address":   "44 Oak Ave",
		"phone":     "bad",
		"startDate": "2025-02-01",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	fieldErrors, ok := body["errors"].(map[string]any)
	if !ok {
		t.Fatalf("body = %v, want errors map", body)
	}
	if fieldErrors["firstName"] != "First name is required" {
		t.Fatalf("firstName = %v", fieldErrors["firstName"])
	}
	if fieldErrors["phone"] != "Phone number is required" {
		t.Fatalf("phone = %v", fieldErrors["phone"])
	}
}

func TestDuplicateProductConflict(t *testing.T) {
	server := newTestServer(t)

	// Seed data already has Trailblazer 29 by Summit Cycles; the validator
	// catches the duplicate before the store does.
	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/v1/products", map[string]any{
		"name":                 "trailblazer 29",
		"manufacturer":         "SUMMIT CYCLES",
		"style":                "Mountain",
		"purchasePrice":        "800",
		"salePrice":            "1300",
		"qtyOnHand":            2,
		"commissionPercentage": "9",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d body %v, want 422", resp.StatusCode, body)
	}
	fieldErrors := body["errors"].(map[string]any)
	if fieldErrors["duplicateProduct"] == nil {
		t.Fatalf("errors = %v, want duplicateProduct", fieldErrors)
	}
}

func TestSalesDateRangeQuery(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/v1/sales?from=2025-10-01&to=2025-12-31", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/v1/sales?from=2025-10-01&to=2025-12-31", nil)
	raw, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer raw.Body.Close()
	var sales []map[string]any
	if err := json.NewDecoder(raw.Body).Decode(&sales); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Seed data has four sales in Q4 2025.
	if len(sales) != 4 {
		t.Fatalf("got %d sales, want 4", len(sales))
	}

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/v1/sales?from=notadate", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad date status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateSaleRejectsDanglingReference(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/sales", map[string]any{
		"productId":     999,
		"salesPersonId": 5,
		"customerId":    8,
		"date":          "2025-11-01",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestCommissionReportEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/v1/reports/commission?year=2025&quarter=4", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d body %v", resp.StatusCode, body)
	}
	period := body["period"].(map[string]any)
	if period["year"] != float64(2025) || period["quarter"] != float64(4) {
		t.Fatalf("period = %v", period)
	}
	reports := body["reports"].([]any)
	if len(reports) != 3 {
		t.Fatalf("got %d report rows, want 3", len(reports))
	}

	first := reports[0].(map[string]any)
	if first["salespersonName"] == "" || first["numberOfSales"] == nil {
		t.Fatalf("row shape = %v", first)
	}

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/v1/reports/commission?year=2025", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("partial period status = %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/v1/reports/commission?year=2025&quarter=9", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("invalid quarter status = %d, want 422", resp.StatusCode)
	}
}

func TestCommissionDetailsEndpoint(t *testing.T) {
	server := newTestServer(t)

	// Salesperson ids 5..7 in seed order; Jane Smith is 5 and sold in Q4 2025.
	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/v1/reports/commission/details/5?year=2025&quarter=4", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d body %v", resp.StatusCode, body)
	}
	details := body["details"].(map[string]any)
	if details["salespersonName"] != "Jane Smith" {
		t.Fatalf("details = %v", details)
	}
	lines := details["lines"].([]any)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/v1/reports/commission/details/999?year=2025&quarter=4", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing salesperson status = %d, want 404", resp.StatusCode)
	}
}

func TestReportPeriodEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/v1/reports/commission/period", map[string]any{
		"year":    2025,
		"quarter": 4,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stage status = %d body %v", resp.StatusCode, body)
	}
	pending := body["pending"].(map[string]any)
	if pending["quarter"] != float64(4) {
		t.Fatalf("pending = %v", pending)
	}

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/v1/reports/commission/period/apply", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("apply status = %d", resp.StatusCode)
	}
	applied := body["applied"].(map[string]any)
	if applied["year"] != float64(2025) || applied["quarter"] != float64(4) {
		t.Fatalf("applied = %v", applied)
	}

	// With Q4 2025 applied, the default report serves that period.
	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/v1/reports/commission", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("default report status = %d", resp.StatusCode)
	}
	period := body["period"].(map[string]any)
	if period["year"] != float64(2025) || period["quarter"] != float64(4) {
		t.Fatalf("default period = %v", period)
	}

	resp, body = doJSON(t, http.MethodDelete, server.URL+"/api/v1/reports/commission/period", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/reports/commission/period", map[string]any{
		"year":    2025,
		"quarter": 11,
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("invalid stage status = %d, want 422", resp.StatusCode)
	}
}

func TestCommissionExportCSV(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/reports/commission/export?year=2025&quarter=4&format=csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type = %q", ct)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "salesperson,total_sales,total_commission,number_of_sales") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.Contains(out, "Jane Smith") {
		t.Fatalf("missing row: %q", out)
	}
}

func TestCommissionExportHTML(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/reports/commission/export?year=2025&quarter=4&format=html")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Commission Report Q4 2025") {
		t.Fatalf("missing caption: %q", out)
	}
	if !strings.Contains(out, "Jane Smith") {
		t.Fatalf("missing row: %q", out)
	}
}

func TestCommissionExportRejectsUnknownFormat(t *testing.T) {
	server := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/v1/reports/commission/export?format=pdf", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	server := newTestServer(t)
	resp, _ := doJSON(t, http.MethodDelete, server.URL+"/api/v1/sales/1", nil)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/api/v1/customers", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://127.0.0.1:3000" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestRejectsUnknownJSONFields(t *testing.T) {
	server := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/customers", map[string]any{
		"firstName": "Pat",
		"lastName":  "Doe",
		"address":   "44 Oak Ave",
		"phone":     "555-444-1212",
		"startDate": "2025-02-01",
		"isAdmin":   true,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
