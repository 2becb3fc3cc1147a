package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendlog/internal/archive"
	"spendlog/internal/intent"
	"spendlog/internal/logger"
	"spendlog/internal/models"
	"spendlog/internal/query"
	"spendlog/internal/store"
	"spendlog/internal/testutil"
)

func init() {
	logger.Init("test")
}

var sgt = time.FixedZone("SGT", 8*3600)

// Thursday 12 March 2026, 15:00 in Singapore.
var now = time.Date(2026, 3, 12, 15, 0, 0, 0, sgt)

func fixedCompiler() *query.Compiler {
	return query.NewCompiler(query.WithClock(func() time.Time { return now }), query.WithLocation(sgt))
}

type fakeCategorizer struct {
	category models.Category
	keywords []string
}

func (f *fakeCategorizer) Categorize(ctx context.Context, keyword string, amount decimal.Decimal) models.Category {
	f.keywords = append(f.keywords, keyword)
	return f.category
}

type fakeClassifier struct {
	raw     intent.Raw
	err     error
	queries []string
}

func (f *fakeClassifier) Classify(ctx context.Context, q string) (intent.Raw, error) {
	f.queries = append(f.queries, q)
	return f.raw, f.err
}

type fakeSummarizer struct {
	text  string
	err   error
	calls int
	data  interface{}
}

func (f *fakeSummarizer) Summarize(ctx context.Context, q string, data interface{}) (string, error) {
	f.calls++
	f.data = data
	return f.text, f.err
}

type fakeReader struct {
	text      string
	err       error
	mediaType string
}

func (f *fakeReader) Text(ctx context.Context, data []byte, mediaType string) (string, error) {
	f.mediaType = mediaType
	return f.text, f.err
}

type fakeArchiver struct {
	url    string
	err    error
	stored int
}

func (f *fakeArchiver) Store(ctx context.Context, mediaType string, data []byte) (string, error) {
	f.stored++
	return f.url, f.err
}

var (
	_ Categorizer      = (*fakeCategorizer)(nil)
	_ IntentClassifier = (*fakeClassifier)(nil)
	_ Summarizer       = (*fakeSummarizer)(nil)
	_ TextReader       = (*fakeReader)(nil)
	_ archive.Archiver = (*fakeArchiver)(nil)
)

// seedLedger fills st with a week of spending around now:
// Koufu 12.80 (Thu), Ya Kun 4.20 (Wed), Starbucks 5.50 (Tue), Grab 15.00
// (2 Mar) and IKEA 90.00 (20 Feb).
func seedLedger(t *testing.T, st store.Store) {
	t.Helper()

	txs := []*models.Transaction{
		testutil.NewTestTransaction(1280, models.CategoryFoodDrinks, time.Date(2026, 3, 12, 10, 0, 0, 0, sgt), "Koufu", "lunch"),
		testutil.NewTestTransaction(550, models.CategoryFoodDrinks, time.Date(2026, 3, 10, 8, 0, 0, 0, sgt), "Starbucks", "coffee"),
		testutil.NewTestTransaction(420, models.CategoryFoodDrinks, time.Date(2026, 3, 11, 9, 0, 0, 0, sgt), "Ya Kun Kaya Toast", "Coffee"),
		testutil.NewTestTransaction(1500, models.CategoryTransport, time.Date(2026, 3, 2, 18, 0, 0, 0, sgt), "Grab"),
		testutil.NewTestTransaction(9000, models.CategoryShopping, time.Date(2026, 2, 20, 12, 0, 0, 0, sgt), "IKEA"),
	}
	for _, tx := range txs {
		if err := st.Create(context.Background(), tx); err != nil {
			t.Fatalf("failed to seed transaction: %v", err)
		}
	}
}
