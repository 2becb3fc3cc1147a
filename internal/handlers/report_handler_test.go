package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/intent"
	"spendlog/internal/query"
	"spendlog/internal/services"
)

// --- mock report service ---

type mockReportService struct {
	reportFn  func(ctx context.Context, queryText string) (*services.Report, error)
	compileFn func(queryText string, raw intent.Raw) query.Plan
}

func (m *mockReportService) Report(ctx context.Context, queryText string) (*services.Report, error) {
	if m.reportFn != nil {
		return m.reportFn(ctx, queryText)
	}
	return &services.Report{}, nil
}

func (m *mockReportService) Compile(queryText string, raw intent.Raw) query.Plan {
	if m.compileFn != nil {
		return m.compileFn(queryText, raw)
	}
	return query.Plan{}
}

var _ services.ReportServicer = (*mockReportService)(nil)

func setupReportRouter(handler *ReportHandler) *gin.Engine {
	r := gin.New()
	r.POST("/reports", handler.Report)
	r.POST("/reports/compile", handler.Compile)
	return r
}

func TestReportHandler_Report(t *testing.T) {
	t.Run("returns 200 with report", func(t *testing.T) {
		svc := &mockReportService{
			reportFn: func(_ context.Context, q string) (*services.Report, error) {
				return &services.Report{Query: q, Total: "9.70", Count: 2, Text: "You spent SGD 9.70"}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "POST", "/reports", `{"query":"how much on coffee this week"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		report := parseJSON(t, rec)["report"].(map[string]interface{})
		if report["total"] != "9.70" || report["query"] != "how much on coffee this week" {
			t.Errorf("unexpected report: %v", report)
		}
	})

	t.Run("returns 400 on missing query", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))

		rec := doRequest(r, "POST", "/reports", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 503 without classifier", func(t *testing.T) {
		svc := &mockReportService{
			reportFn: func(context.Context, string) (*services.Report, error) {
				return nil, apperrors.ErrClassifierUnavailable
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "POST", "/reports", `{"query":"spending this month"}`)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CLASSIFIER_UNAVAILABLE")
	})

	t.Run("returns 502 on unparseable classification", func(t *testing.T) {
		svc := &mockReportService{
			reportFn: func(context.Context, string) (*services.Report, error) {
				return nil, apperrors.ErrQueryParseFailed
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "POST", "/reports", `{"query":"spending this month"}`)

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
	})
}

func TestReportHandler_Compile(t *testing.T) {
	t.Run("passes only provided fields", func(t *testing.T) {
		var gotQuery string
		var gotRaw intent.Raw
		end := time.Date(2026, 3, 12, 7, 0, 0, 0, time.UTC)
		svc := &mockReportService{
			compileFn: func(q string, raw intent.Raw) query.Plan {
				gotQuery, gotRaw = q, raw
				return query.Plan{
					Intent:    intent.Intent{Action: intent.ActionSummarize, Timeframe: intent.TimeframeAll, FilterKind: intent.FilterKeywords, FilterValue: "coffee"},
					Window:    query.Window{End: end},
					Predicate: &query.Predicate{Field: query.FieldKeywords, Pattern: "coffee"},
					GroupBy:   query.GroupKeyword,
					Shape:     query.ShapeAggregate,
				}
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "POST", "/reports/compile",
			`{"query":"coffee spend","filter_type":"keywords","filter_value":"coffee"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotQuery != "coffee spend" {
			t.Errorf("expected query passed through, got %q", gotQuery)
		}
		if len(gotRaw) != 2 || gotRaw[intent.KeyFilterValue] != "coffee" {
			t.Errorf("expected two raw fields, got %v", gotRaw)
		}
		if _, ok := gotRaw[intent.KeyAction]; ok {
			t.Errorf("expected missing action to stay missing, got %v", gotRaw)
		}
		result := parseJSON(t, rec)
		want := `aggregate over all time to 2026-03-12T07:00:00Z where keywords contains "coffee" grouped by keyword`
		if result["summary"] != want {
			t.Errorf("expected summary %q, got %q", want, result["summary"])
		}
		plan := result["plan"].(map[string]interface{})
		if plan["group_by"] != "keyword" {
			t.Errorf("expected keyword grouping, got %v", plan["group_by"])
		}
	})

	t.Run("returns 400 on malformed body", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))

		rec := doRequest(r, "POST", "/reports/compile", `{"action":`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
