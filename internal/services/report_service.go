package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/intent"
	"spendlog/internal/logger"
	"spendlog/internal/metrics"
	"spendlog/internal/models"
	"spendlog/internal/query"
	"spendlog/internal/store"
)

const (
	noTransactionsText = "I couldn't find any matching transactions for your request."
	noSpendingText     = "I couldn't find any matching spending data for your request."
	listDateLayout     = "02 Jan 03:04 PM"
)

// reportService answers spending questions against the ledger.
type reportService struct {
	store      store.Store
	classifier IntentClassifier
	summarizer Summarizer
	compiler   *query.Compiler
	loc        *time.Location
	currency   string
	metrics    *metrics.Metrics
}

// NewReportService creates a new ReportServicer. Without a summarizer the
// deterministic summary text is always used.
func NewReportService(
	st store.Store,
	classifier IntentClassifier,
	summarizer Summarizer,
	compiler *query.Compiler,
	loc *time.Location,
	currency string,
	m *metrics.Metrics,
) ReportServicer {
	if loc == nil {
		loc = time.Local
	}
	if compiler == nil {
		compiler = query.NewCompiler(query.WithLocation(loc))
	}
	if currency == "" {
		currency = "SGD"
	}
	return &reportService{
		store:      st,
		classifier: classifier,
		summarizer: summarizer,
		compiler:   compiler,
		loc:        loc,
		currency:   strings.ToUpper(currency),
		metrics:    m,
	}
}

// Compile normalizes raw against queryText and compiles the result.
func (s *reportService) Compile(queryText string, raw intent.Raw) query.Plan {
	return s.compiler.Compile(intent.Normalize(queryText, raw))
}

// Report classifies queryText, compiles it and runs the plan.
func (s *reportService) Report(ctx context.Context, queryText string) (*Report, error) {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "query is required")
	}
	if s.classifier == nil {
		return nil, apperrors.ErrClassifierUnavailable
	}

	raw, err := s.classifier.Classify(ctx, queryText)
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			err = apperrors.Wrap(apperrors.ErrQueryParseFailed, err)
		}
		return nil, err
	}

	plan := s.Compile(queryText, raw)
	s.metrics.ObserveQuery(string(plan.Intent.Action), string(plan.Intent.Timeframe), string(plan.Intent.FilterKind))

	report := &Report{
		Query:  queryText,
		Intent: plan.Intent,
		Plan:   plan.String(),
	}
	if plan.Shape == query.ShapeList {
		err = s.runList(ctx, plan, report)
	} else {
		err = s.runSummary(ctx, plan, report)
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) runList(ctx context.Context, plan query.Plan, report *Report) error {
	txs, err := s.store.Find(ctx, plan)
	if err != nil {
		return err
	}

	total := decimal.Zero
	for i := range txs {
		total = total.Add(txs[i].Decimal())
	}
	report.Transactions = txs
	report.Count = int64(len(txs))
	report.Total = total.StringFixed(2)
	report.Average = average(total, report.Count).StringFixed(2)

	if len(txs) == 0 {
		report.Text = noTransactionsText
		return nil
	}
	report.Text = s.listText(report.Query, txs, total)
	return nil
}

func (s *reportService) listText(queryText string, txs []models.Transaction, total decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transactions for '%s':\n\n", queryText)
	for i := range txs {
		tx := &txs[i]
		keywords := "No keywords"
		if list := tx.KeywordList(); len(list) > 0 {
			keywords = list.String()
		}
		fmt.Fprintf(&b, "%s\n", tx.CreatedAt.In(s.loc).Format(listDateLayout))
		fmt.Fprintf(&b, "%s %s\n", tx.Currency, tx.Decimal().StringFixed(2))
		fmt.Fprintf(&b, "%s\n", keywords)
		fmt.Fprintf(&b, "%s\n\n", tx.Category)
	}

	count := int64(len(txs))
	b.WriteString("Summary:\n")
	fmt.Fprintf(&b, "• Total Amount: %s %s\n", s.currency, total.StringFixed(2))
	fmt.Fprintf(&b, "• Number of Transactions: %d\n", count)
	fmt.Fprintf(&b, "• Average per Transaction: %s %s", s.currency, average(total, count).StringFixed(2))
	return b.String()
}

// summaryData is the payload handed to the summary generator.
type summaryData struct {
	Timeframe   intent.Timeframe  `json:"timeframe"`
	FilterType  intent.FilterKind `json:"filter_type"`
	FilterValue string            `json:"filter_value,omitempty"`
	Currency    string            `json:"currency"`
	TotalAmount string            `json:"total_amount"`
	Count       int64             `json:"count"`
	Groups      []ReportGroup     `json:"groups,omitempty"`
	Categories  []ReportGroup     `json:"categories"`
}

func (s *reportService) runSummary(ctx context.Context, plan query.Plan, report *Report) error {
	groups, err := s.store.Aggregate(ctx, plan)
	if err != nil {
		return err
	}
	categories := groups
	if plan.GroupBy != query.GroupCategory {
		if categories, err = s.store.Aggregate(ctx, plan.WithGroup(query.GroupCategory)); err != nil {
			return err
		}
	}

	// Keyword groups can count one transaction twice, categories never do.
	total, count := categories.Total(), categories.Count()
	report.Groups = reportGroups(groups)
	report.Categories = reportGroups(categories)
	report.Total = total.StringFixed(2)
	report.Count = count
	report.Average = average(total, count).StringFixed(2)

	if count == 0 {
		report.Text = noSpendingText
		return nil
	}

	data := summaryData{
		Timeframe:   plan.Intent.Timeframe,
		FilterType:  plan.Intent.FilterKind,
		FilterValue: plan.Intent.FilterValue,
		Currency:    s.currency,
		TotalAmount: report.Total,
		Count:       count,
		Categories:  report.Categories,
	}
	if plan.GroupBy == query.GroupKeyword {
		data.Groups = report.Groups
	}

	if s.summarizer != nil {
		text, err := s.summarizer.Summarize(ctx, report.Query, data)
		if err == nil {
			report.Text = text
			return nil
		}
		logger.Get().Warnw("summary generation failed, using fallback", "error", err, "query", report.Query)
	}
	report.Text = s.fallbackSummary(plan, data)
	return nil
}

func (s *reportService) fallbackSummary(plan query.Plan, data summaryData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You spent %s %s over %d %s %s", s.currency, data.TotalAmount, data.Count, plural(data.Count, "transaction"), timeframePhrase(plan.Intent.Timeframe))
	if plan.Intent.HasFilter() {
		fmt.Fprintf(&b, " matching %q", plan.Intent.FilterValue)
	}
	b.WriteString(".")

	if len(data.Groups) > 0 {
		b.WriteString("\n\nBy keyword:")
		writeGroups(&b, s.currency, data.Groups)
	}
	b.WriteString("\n\nBy category:")
	writeGroups(&b, s.currency, data.Categories)
	return b.String()
}

func writeGroups(b *strings.Builder, currency string, groups []ReportGroup) {
	for _, g := range groups {
		fmt.Fprintf(b, "\n• %s: %s %s (%d)", g.Key, currency, g.Total, g.Count)
	}
}

func reportGroups(agg query.Aggregate) []ReportGroup {
	out := make([]ReportGroup, 0, len(agg))
	for _, g := range agg {
		out = append(out, ReportGroup{Key: g.Key, Total: g.Total.StringFixed(2), Count: g.Count})
	}
	return out
}

func average(total decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count))
}

func plural(n int64, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func timeframePhrase(tf intent.Timeframe) string {
	switch tf {
	case intent.TimeframeDay:
		return "today"
	case intent.TimeframeMonth:
		return "this month"
	case intent.TimeframeAll:
		return "in total"
	default:
		return "this week"
	}
}
