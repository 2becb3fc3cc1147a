package query

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendlog/internal/intent"
)

var singapore = time.FixedZone("SGT", 8*3600)

func fixedCompiler(now time.Time) *Compiler {
	return NewCompiler(WithClock(func() time.Time { return now }), WithLocation(now.Location()))
}

func TestCompile(t *testing.T) {
	// Thursday afternoon.
	now := time.Date(2026, 3, 12, 15, 4, 5, 0, singapore)
	c := fixedCompiler(now)

	t.Run("list_today_unfiltered", func(t *testing.T) {
		plan := c.Compile(intent.Intent{Action: intent.ActionList, Timeframe: intent.TimeframeDay, FilterKind: intent.FilterNone})

		want := time.Date(2026, 3, 12, 0, 0, 0, 0, singapore)
		if plan.Window.Start == nil || !plan.Window.Start.Equal(want) {
			t.Errorf("expected window start %v, got %v", want, plan.Window.Start)
		}
		if !plan.Window.End.Equal(now) {
			t.Errorf("expected window end %v, got %v", now, plan.Window.End)
		}
		if plan.Predicate != nil {
			t.Errorf("expected no predicate, got %+v", plan.Predicate)
		}
		if plan.Shape != ShapeList || plan.GroupBy != GroupNone {
			t.Errorf("expected ungrouped list, got %s/%s", plan.Shape, plan.GroupBy)
		}
	})

	t.Run("summarize_week_keywords_groups_by_keyword", func(t *testing.T) {
		plan := c.Compile(intent.Intent{Action: intent.ActionSummarize, Timeframe: intent.TimeframeWeek, FilterKind: intent.FilterKeywords, FilterValue: "coffee"})

		monday := time.Date(2026, 3, 9, 0, 0, 0, 0, singapore)
		if plan.Window.Start == nil || !plan.Window.Start.Equal(monday) {
			t.Errorf("expected window start %v, got %v", monday, plan.Window.Start)
		}
		if plan.Predicate == nil || *plan.Predicate != (Predicate{Field: FieldKeywords, Pattern: "coffee"}) {
			t.Errorf("expected keywords predicate on coffee, got %+v", plan.Predicate)
		}
		if plan.Shape != ShapeAggregate || plan.GroupBy != GroupKeyword {
			t.Errorf("expected aggregate grouped by keyword, got %s/%s", plan.Shape, plan.GroupBy)
		}
	})

	t.Run("summarize_month_category_is_ungrouped", func(t *testing.T) {
		in := intent.Normalize("how much on food this month", intent.Raw{
			intent.KeyAction: "summarize", intent.KeyTimeframe: "this month",
			intent.KeyFilterType: "category", intent.KeyFilterValue: "food",
		})
		plan := c.Compile(in)

		first := time.Date(2026, 3, 1, 0, 0, 0, 0, singapore)
		if plan.Window.Start == nil || !plan.Window.Start.Equal(first) {
			t.Errorf("expected window start %v, got %v", first, plan.Window.Start)
		}
		if plan.Predicate == nil || plan.Predicate.Field != FieldCategory || plan.Predicate.Pattern != "food" {
			t.Errorf("expected category predicate on food, got %+v", plan.Predicate)
		}
		if plan.GroupBy != GroupNone || plan.Shape != ShapeAggregate {
			t.Errorf("expected ungrouped aggregate, got %s/%s", plan.Shape, plan.GroupBy)
		}
	})

	t.Run("all_time_is_unbounded", func(t *testing.T) {
		plan := c.Compile(intent.Intent{Action: intent.ActionSummarize, Timeframe: intent.TimeframeAll, FilterKind: intent.FilterNone})
		if plan.Window.Start != nil {
			t.Errorf("expected unbounded window, got %v", plan.Window.Start)
		}
	})

	t.Run("list_keywords_is_not_grouped", func(t *testing.T) {
		plan := c.Compile(intent.Intent{Action: intent.ActionList, Timeframe: intent.TimeframeWeek, FilterKind: intent.FilterKeywords, FilterValue: "grab"})
		if plan.Shape != ShapeList || plan.GroupBy != GroupNone {
			t.Errorf("expected ungrouped list, got %s/%s", plan.Shape, plan.GroupBy)
		}
		if plan.Predicate == nil || plan.Predicate.Field != FieldKeywords {
			t.Errorf("expected keywords predicate, got %+v", plan.Predicate)
		}
	})

	t.Run("kind_without_value_has_no_predicate", func(t *testing.T) {
		plan := c.Compile(intent.Intent{Action: intent.ActionSummarize, Timeframe: intent.TimeframeWeek, FilterKind: intent.FilterKeywords})
		if plan.Predicate != nil || plan.GroupBy != GroupNone {
			t.Errorf("expected plain total, got predicate %+v grouped by %s", plan.Predicate, plan.GroupBy)
		}
	})

	t.Run("clock_read_per_compile", func(t *testing.T) {
		tick := now
		clocked := NewCompiler(WithClock(func() time.Time { return tick }), WithLocation(singapore))
		in := intent.Intent{Action: intent.ActionSummarize, Timeframe: intent.TimeframeDay, FilterKind: intent.FilterNone}

		first := clocked.Compile(in)
		tick = now.Add(10 * time.Hour) // next calendar day
		second := clocked.Compile(in)

		if !second.Window.Start.After(*first.Window.Start) {
			t.Errorf("expected the window to move with the clock, got %v then %v", first.Window.Start, second.Window.Start)
		}
	})

	t.Run("same_tick_same_plan", func(t *testing.T) {
		in := intent.Intent{Action: intent.ActionSummarize, Timeframe: intent.TimeframeMonth, FilterKind: intent.FilterCategory, FilterValue: "Transport"}
		a, b := c.Compile(in), c.Compile(in)
		if a.String() != b.String() {
			t.Errorf("expected identical plans, got %q and %q", a, b)
		}
	})
}

func TestWindowStart(t *testing.T) {
	tests := []struct {
		name string
		tf   intent.Timeframe
		now  time.Time
		want time.Time
	}{
		{"day", intent.TimeframeDay, time.Date(2026, 3, 12, 23, 59, 59, 0, time.UTC), time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)},
		{"week_from_monday", intent.TimeframeWeek, time.Date(2026, 3, 9, 0, 0, 1, 0, time.UTC), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"week_from_sunday", intent.TimeframeWeek, time.Date(2026, 3, 15, 22, 0, 0, 0, time.UTC), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"week_across_month", intent.TimeframeWeek, time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC), time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)},
		{"week_across_year", intent.TimeframeWeek, time.Date(2027, 1, 1, 8, 0, 0, 0, time.UTC), time.Date(2026, 12, 28, 0, 0, 0, 0, time.UTC)},
		{"month", intent.TimeframeMonth, time.Date(2026, 2, 28, 18, 0, 0, 0, time.UTC), time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"month_first_day", intent.TimeframeMonth, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := WindowStart(tt.tf, tt.now)
			if !ok {
				t.Fatal("expected a bounded window")
			}
			if !got.Equal(tt.want) {
				t.Errorf("WindowStart(%s, %v) = %v, want %v", tt.tf, tt.now, got, tt.want)
			}
		})
	}

	t.Run("all", func(t *testing.T) {
		if _, ok := WindowStart(intent.TimeframeAll, time.Now()); ok {
			t.Error("expected unbounded window for all")
		}
	})

	t.Run("uses_zone_of_now", func(t *testing.T) {
		// 01:00 in Singapore is still the previous day in UTC.
		now := time.Date(2026, 3, 12, 1, 0, 0, 0, singapore)
		got, _ := WindowStart(intent.TimeframeDay, now)
		if !got.Equal(time.Date(2026, 3, 11, 16, 0, 0, 0, time.UTC)) {
			t.Errorf("expected Singapore midnight, got %v", got.UTC())
		}
	})
}

func TestPredicate(t *testing.T) {
	p := Predicate{Field: FieldKeywords, Pattern: "Coffee"}

	if !p.Match("Starbucks coffee") {
		t.Error("expected substring match ignoring case")
	}
	if p.Match("tea") {
		t.Error("expected no match")
	}
	if !p.MatchAny([]string{"Koufu", "iced COFFEE"}) {
		t.Error("expected match on any element")
	}
	if p.MatchAny(nil) {
		t.Error("expected no match on empty list")
	}
}

func TestWindow_Contains(t *testing.T) {
	start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	w := Window{Start: &start, End: start.Add(48 * time.Hour)}

	if !w.Contains(start) || !w.Contains(w.End) {
		t.Error("expected window to include both bounds")
	}
	if w.Contains(start.Add(-time.Second)) || w.Contains(w.End.Add(time.Second)) {
		t.Error("expected instants outside the window to be excluded")
	}
	if !(Window{End: w.End}).Contains(time.Time{}) {
		t.Error("expected unbounded window to include the zero time")
	}
}

func TestAggregate(t *testing.T) {
	agg := Aggregate{
		{Key: "koufu", Total: decimal.RequireFromString("12.80"), Count: 2},
		{Key: "grab", Total: decimal.RequireFromString("7.20"), Count: 1},
	}
	if !agg.Total().Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected total 20, got %s", agg.Total())
	}
	if agg.Count() != 3 {
		t.Errorf("expected count 3, got %d", agg.Count())
	}
	if !(Aggregate{}).Total().IsZero() {
		t.Error("expected empty aggregate to total zero")
	}
}
