// Package model provides the data types shared between the trendscout
// components and the HTTP client.
package model

import "strings"

// DefaultCount is the number of ideas requested when the count input is
// missing, unparsable or not positive.
const DefaultCount = 3

// AnalysisRequest is the body sent to the analysis endpoint.
// Immutable once sent.
type AnalysisRequest struct {
	Keyword  string `json:"keyword"`
	Count    int    `json:"count"`
	Category string `json:"category,omitempty"` // empty means "any category"
}

// AnalysisResult is a successful analysis response.
type AnalysisResult struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category,omitempty"`
	Ideas    string `json:"ideas"` // markdown
}

// Title composes the result heading: "<label>: keyword (category)".
// The category suffix is omitted when the result has no category.
func (r AnalysisResult) Title(label string) string {
	var b strings.Builder
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(r.Keyword)
	if r.Category != "" {
		b.WriteString(" (")
		b.WriteString(r.Category)
		b.WriteString(")")
	}
	return b.String()
}

// TrendCatalog is the ordered list of trend names from the last applied load.
type TrendCatalog []string

// Clone returns an independent copy so callers cannot alias loader state.
func (c TrendCatalog) Clone() TrendCatalog {
	if c == nil {
		return TrendCatalog{}
	}
	out := make(TrendCatalog, len(c))
	copy(out, c)
	return out
}
