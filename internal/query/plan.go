// Package query compiles a normalized spending intent into a store-agnostic
// plan: a time window, an optional predicate, a grouping and a result shape.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spendlog/internal/intent"
)

// Field is a transaction field a predicate can match.
type Field string

const (
	FieldCategory Field = "category"
	FieldKeywords Field = "keywords"
)

// GroupKey selects how an aggregate is broken down.
type GroupKey string

const (
	GroupNone     GroupKey = "none"
	GroupCategory GroupKey = "category"
	GroupKeyword  GroupKey = "keyword"
)

// Shape is the form of a plan's result.
type Shape string

const (
	ShapeAggregate Shape = "aggregate"
	ShapeList      Shape = "list"
)

// Window bounds created_at. A nil Start is unbounded.
type Window struct {
	Start *time.Time `json:"start,omitempty"`
	End   time.Time  `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	return !t.After(w.End)
}

// Predicate is a case-insensitive substring match on Field. For keywords it
// matches when any element of the list contains Pattern.
type Predicate struct {
	Field   Field  `json:"field"`
	Pattern string `json:"pattern"`
}

// Match reports whether value contains the pattern, ignoring case.
func (p Predicate) Match(value string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(p.Pattern))
}

// MatchAny reports whether any of values matches.
func (p Predicate) MatchAny(values []string) bool {
	for _, v := range values {
		if p.Match(v) {
			return true
		}
	}
	return false
}

// Plan is a compiled query. It is plain data; stores interpret it.
type Plan struct {
	Intent    intent.Intent `json:"intent"`
	Window    Window        `json:"window"`
	Predicate *Predicate    `json:"predicate,omitempty"`
	GroupBy   GroupKey      `json:"group_by"`
	Shape     Shape         `json:"shape"`
}

// WithGroup returns a copy of an aggregate plan regrouped by key.
func (p Plan) WithGroup(key GroupKey) Plan {
	p.GroupBy = key
	return p
}

// String renders the plan for logs and debugging output.
func (p Plan) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", p.Shape)
	if p.Window.Start != nil {
		fmt.Fprintf(&b, " from %s", p.Window.Start.Format(time.RFC3339))
	} else {
		b.WriteString(" over all time")
	}
	fmt.Fprintf(&b, " to %s", p.Window.End.Format(time.RFC3339))
	if p.Predicate != nil {
		fmt.Fprintf(&b, " where %s contains %q", p.Predicate.Field, p.Predicate.Pattern)
	}
	switch {
	case p.Shape == ShapeList:
		b.WriteString(" newest first")
	case p.GroupBy != GroupNone:
		fmt.Fprintf(&b, " grouped by %s", p.GroupBy)
	}
	return b.String()
}

// Group is one row of an aggregate result. Key is empty for an ungrouped
// total.
type Group struct {
	Key   string          `json:"key,omitempty"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// Aggregate is the result of an aggregate plan, ordered by total descending.
type Aggregate []Group

// Total sums all groups.
func (a Aggregate) Total() decimal.Decimal {
	total := decimal.Zero
	for _, g := range a {
		total = total.Add(g.Total)
	}
	return total
}

// Count sums all group counts.
func (a Aggregate) Count() int64 {
	var n int64
	for _, g := range a {
		n += g.Count
	}
	return n
}
