// Package keyword keeps the two keyword inputs (a selected trend and a
// free-text keyword) mutually exclusive.
package keyword

import "strings"

// Kind tags which input a Source came from.
type Kind int

const (
	KindNone Kind = iota
	KindTrend
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindTrend:
		return "trend"
	case KindCustom:
		return "custom"
	default:
		return "none"
	}
}

// Source is the resolved keyword. Value is empty iff Kind is KindNone.
type Source struct {
	Kind  Kind
	Value string
}

// Empty reports whether no keyword is available.
func (s Source) Empty() bool {
	return s.Kind == KindNone
}

// Coordinator owns the trend and custom-keyword fields.
// At most one of them is non-empty after any On* call.
type Coordinator struct {
	trend  string
	custom string
}

// OnTrendSelected records a trend selection. A non-empty value clears the
// custom keyword; selecting the placeholder ("") leaves it alone.
func (c *Coordinator) OnTrendSelected(value string) {
	c.trend = value
	if value != "" {
		c.custom = ""
	}
}

// OnCustomKeywordInput records the custom keyword field. A non-empty value
// clears the trend selection.
func (c *Coordinator) OnCustomKeywordInput(value string) {
	c.custom = value
	if value != "" {
		c.trend = ""
	}
}

// Current resolves the keyword. The custom field is checked first.
func (c *Coordinator) Current() Source {
	if v := strings.TrimSpace(c.custom); v != "" {
		return Source{Kind: KindCustom, Value: v}
	}
	if c.trend != "" {
		return Source{Kind: KindTrend, Value: c.trend}
	}
	return Source{Kind: KindNone}
}

// Trend returns the raw trend field.
func (c *Coordinator) Trend() string { return c.trend }

// Custom returns the raw custom-keyword field.
func (c *Coordinator) Custom() string { return c.custom }
