package query

import (
	"time"

	"spendlog/internal/intent"
)

// Compiler turns intents into plans. It never touches a store, so a plan can
// be inspected before it runs.
type Compiler struct {
	now func() time.Time
	loc *time.Location
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithClock sets the source of the current instant.
func WithClock(now func() time.Time) Option {
	return func(c *Compiler) { c.now = now }
}

// WithLocation sets the zone calendar boundaries are computed in.
func WithLocation(loc *time.Location) Option {
	return func(c *Compiler) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// NewCompiler creates a Compiler using the wall clock in the local zone.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile builds the plan for in. The window is resolved against the clock
// at each call.
func (c *Compiler) Compile(in intent.Intent) Plan {
	now := c.now().In(c.loc)

	plan := Plan{
		Intent:  in,
		Window:  Window{End: now},
		GroupBy: GroupNone,
		Shape:   ShapeAggregate,
	}
	if start, ok := WindowStart(in.Timeframe, now); ok {
		plan.Window.Start = &start
	}

	if in.HasFilter() {
		switch in.FilterKind {
		case intent.FilterCategory:
			plan.Predicate = &Predicate{Field: FieldCategory, Pattern: in.FilterValue}
		case intent.FilterKeywords:
			plan.Predicate = &Predicate{Field: FieldKeywords, Pattern: in.FilterValue}
			plan.GroupBy = GroupKeyword
		}
	}

	if in.Action == intent.ActionList {
		plan.Shape = ShapeList
		plan.GroupBy = GroupNone
	}
	return plan
}

// WindowStart returns the start of tf's window containing now, in now's
// zone. Weeks start on Monday. ok is false for an unbounded window.
func WindowStart(tf intent.Timeframe, now time.Time) (start time.Time, ok bool) {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch tf {
	case intent.TimeframeDay:
		return midnight, true
	case intent.TimeframeWeek:
		sinceMonday := (int(now.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -sinceMonday), true
	case intent.TimeframeMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}
