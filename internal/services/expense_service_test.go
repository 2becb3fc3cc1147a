package services

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"spendlog/internal/extract"
	"spendlog/internal/models"
	"spendlog/internal/pagination"
	"spendlog/internal/store"
	"spendlog/internal/testutil"
)

func newExpenseTestService(st store.Store, cat Categorizer) ExpenseServicer {
	return NewExpenseService(st, extract.NewPipeline(nil), cat, "sgd", nil)
}

func TestExpenseService_Extract(t *testing.T) {
	ctx := context.Background()
	svc := newExpenseTestService(store.NewMemoryStore(), nil)

	t.Run("merchant_found", func(t *testing.T) {
		draft, err := svc.Extract(ctx, "$12.80 lunch at Koufu")
		testutil.AssertNoError(t, err)

		testutil.AssertAmount(t, draft.Amount, "12.80")
		if draft.Currency != "SGD" {
			t.Errorf("expected SGD, got %q", draft.Currency)
		}
		if draft.Keywords.Primary() != "Koufu" || draft.Stage != extract.StageGazetteer {
			t.Errorf("expected Koufu via gazetteer, got %v via %s", draft.Keywords, draft.Stage)
		}
		if draft.NeedsKeyword || draft.Prompt != "" {
			t.Errorf("expected no keyword prompt, got %v %q", draft.NeedsKeyword, draft.Prompt)
		}
		if draft.Source != models.SourceText {
			t.Errorf("expected text source, got %q", draft.Source)
		}
	})

	t.Run("asks_for_keyword", func(t *testing.T) {
		draft, err := svc.Extract(ctx, "spent 4.50")
		testutil.AssertNoError(t, err)

		if !draft.NeedsKeyword {
			t.Fatalf("expected needs_keyword, got keywords %v", draft.Keywords)
		}
		if draft.Prompt != extract.KeywordPrompt {
			t.Errorf("expected keyword prompt, got %q", draft.Prompt)
		}
	})

	t.Run("no_amount", func(t *testing.T) {
		_, err := svc.Extract(ctx, "lunch at Koufu")
		testutil.AssertAppError(t, err, "NO_AMOUNT_FOUND")
	})

	t.Run("blank_text", func(t *testing.T) {
		_, err := svc.Extract(ctx, "   ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDraft_MarshalJSON(t *testing.T) {
	draft := Draft{Amount: decimal.RequireFromString("5.5"), Currency: "SGD", Stage: extract.StageNone, NeedsKeyword: true}

	data, err := draft.MarshalJSON()
	testutil.AssertNoError(t, err)

	got := string(data)
	for _, want := range []string{`"amount":"5.50"`, `"keywords":[]`, `"needs_keyword":true`} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s in %s", want, got)
		}
	}
}

func TestExpenseService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts_and_merges_keywords", func(t *testing.T) {
		st := store.NewMemoryStore()
		cat := &fakeCategorizer{category: models.CategoryFoodDrinks}
		svc := newExpenseTestService(st, cat)

		tx, err := svc.Record(ctx, RecordInput{Text: "$12.80 lunch at Koufu", Keywords: models.KeywordList{"lunch", "KOUFU"}})
		testutil.AssertNoError(t, err)

		if tx.Amount != 1280 {
			t.Errorf("expected 1280 cents, got %d", tx.Amount)
		}
		if got := tx.KeywordList().String(); got != "Koufu, lunch" {
			t.Errorf("expected Koufu, lunch, got %q", got)
		}
		if tx.Category != models.CategoryFoodDrinks {
			t.Errorf("expected Food & Drinks, got %q", tx.Category)
		}
		if len(cat.keywords) != 1 || cat.keywords[0] != "Koufu" {
			t.Errorf("expected categorizer keyed on Koufu, got %v", cat.keywords)
		}

		stored, err := st.Get(ctx, tx.ID)
		testutil.AssertNoError(t, err)
		if stored.RawText != "$12.80 lunch at Koufu" || stored.Currency != "SGD" {
			t.Errorf("unexpected stored transaction: %+v", stored)
		}
	})

	t.Run("explicit_amount_without_categorizer", func(t *testing.T) {
		svc := newExpenseTestService(store.NewMemoryStore(), nil)
		amount := decimal.RequireFromString("5.5")
		url := "gs://receipts/a.jpg"

		tx, err := svc.Record(ctx, RecordInput{Amount: &amount, Keywords: models.KeywordList{"coffee"}, Source: models.SourceImage, ImageURL: &url})
		testutil.AssertNoError(t, err)

		if tx.Amount != 550 {
			t.Errorf("expected 550 cents, got %d", tx.Amount)
		}
		if tx.Category != models.CategoryUncategorized {
			t.Errorf("expected Uncategorized, got %q", tx.Category)
		}
		if tx.Source != models.SourceImage || tx.ImageURL == nil || *tx.ImageURL != url {
			t.Errorf("expected image source with url, got %q %v", tx.Source, tx.ImageURL)
		}
	})

	t.Run("rejects_non_positive_amount", func(t *testing.T) {
		svc := newExpenseTestService(store.NewMemoryStore(), nil)

		for _, s := range []string{"0", "-3", "0.001"} {
			amount := decimal.RequireFromString(s)
			_, err := svc.Record(ctx, RecordInput{Amount: &amount, Keywords: models.KeywordList{"coffee"}})
			testutil.AssertAppError(t, err, "INVALID_AMOUNT")
		}

		_, err := svc.Record(ctx, RecordInput{Text: "free refill $0 at Starbucks"})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("requires_keyword", func(t *testing.T) {
		svc := newExpenseTestService(store.NewMemoryStore(), nil)

		_, err := svc.Record(ctx, RecordInput{Text: "spent 4.50"})
		testutil.AssertAppError(t, err, "KEYWORD_REQUIRED")

		amount := decimal.NewFromInt(3)
		_, err = svc.Record(ctx, RecordInput{Amount: &amount, Keywords: models.KeywordList{" ", ""}})
		testutil.AssertAppError(t, err, "KEYWORD_REQUIRED")
	})

	t.Run("no_amount_in_text", func(t *testing.T) {
		svc := newExpenseTestService(store.NewMemoryStore(), nil)

		_, err := svc.Record(ctx, RecordInput{Text: "lunch", Keywords: models.KeywordList{"Koufu"}})
		testutil.AssertAppError(t, err, "NO_AMOUNT_FOUND")
	})

	t.Run("sql_store", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newExpenseTestService(store.NewSQLStore(db), &fakeCategorizer{category: models.CategoryTransport})

		tx, err := svc.Record(ctx, RecordInput{Text: "grab home $15"})
		testutil.AssertNoError(t, err)

		got, err := svc.Get(ctx, tx.ID)
		testutil.AssertNoError(t, err)
		if got.Amount != 1500 || got.Category != models.CategoryTransport || got.KeywordList().Primary() != "Grab" {
			t.Errorf("unexpected transaction: %d %q %v", got.Amount, got.Category, got.KeywordList())
		}
	})
}

func TestExpenseService_AddKeywords(t *testing.T) {
	ctx := context.Background()
	svc := newExpenseTestService(store.NewMemoryStore(), nil)

	tx, err := svc.Record(ctx, RecordInput{Text: "$12.80 lunch at Koufu", Keywords: models.KeywordList{"lunch"}})
	testutil.AssertNoError(t, err)

	t.Run("set_like_append", func(t *testing.T) {
		got, err := svc.AddKeywords(ctx, tx.ID, models.KeywordList{"LUNCH", "team", "koufu"})
		testutil.AssertNoError(t, err)

		if s := got.KeywordList().String(); s != "Koufu, lunch, team" {
			t.Errorf("expected Koufu, lunch, team, got %q", s)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		_, err := svc.AddKeywords(ctx, tx.ID, models.KeywordList{"  "})
		testutil.AssertAppError(t, err, "KEYWORD_REQUIRED")
	})

	t.Run("unknown_transaction", func(t *testing.T) {
		_, err := svc.AddKeywords(ctx, "missing", models.KeywordList{"team"})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestExpenseService_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	seedLedger(t, st)
	svc := newExpenseTestService(st, nil)

	t.Run("list_newest_first", func(t *testing.T) {
		page, err := svc.List(ctx, pagination.PageRequest{PageSize: 2})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 5 || page.TotalPages != 3 || page.Page != 1 {
			t.Errorf("unexpected page metadata: %+v", page)
		}
		if len(page.Data) != 2 || page.Data[0].KeywordList().Primary() != "Koufu" {
			t.Fatalf("expected Koufu first, got %+v", page.Data)
		}
	})

	t.Run("delete_removes", func(t *testing.T) {
		page, err := svc.List(ctx, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		id := page.Data[0].ID

		testutil.AssertNoError(t, svc.Delete(ctx, id))

		_, err = svc.Get(ctx, id)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
		testutil.AssertAppError(t, svc.Delete(ctx, id), "TRANSACTION_NOT_FOUND")
	})
}
