// Package intent maps the loose output of a query classifier onto a closed
// query intent.
package intent

// Action is what a spending query wants back.
type Action string

const (
	ActionSummarize Action = "summarize"
	ActionList      Action = "list"
)

// Timeframe is a relative reporting window.
type Timeframe string

const (
	TimeframeDay   Timeframe = "day"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeAll   Timeframe = "all"
)

// FilterKind selects which transaction field a query is restricted by.
type FilterKind string

const (
	FilterCategory FilterKind = "category"
	FilterKeywords FilterKind = "keywords"
	FilterNone     FilterKind = "none"
)

// Keys of a raw classifier result.
const (
	KeyAction      = "action"
	KeyTimeframe   = "timeframe"
	KeyFilterType  = "filter_type"
	KeyFilterValue = "filter_value"
)

// Raw is a classifier result. Any key may be missing.
type Raw map[string]string

// Intent is a fully normalized spending query. FilterValue is empty when
// the query carries no filter value.
type Intent struct {
	Action      Action     `json:"action"`
	Timeframe   Timeframe  `json:"timeframe"`
	FilterKind  FilterKind `json:"filter_kind"`
	FilterValue string     `json:"filter_value,omitempty"`
}

// HasFilter reports whether the intent restricts results to a non-empty
// filter value.
func (i Intent) HasFilter() bool {
	return i.FilterKind != FilterNone && i.FilterValue != ""
}
