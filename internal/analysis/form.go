package analysis

import (
	"errors"
	"strconv"
	"strings"

	"github.com/abelbrown/trendscout/internal/keyword"
	"github.com/abelbrown/trendscout/internal/model"
)

// ErrEmptyKeyword is returned when neither a trend nor a custom keyword is set.
var ErrEmptyKeyword = errors.New("empty keyword")

// EmptyKeywordMessage is shown for ErrEmptyKeyword.
const EmptyKeywordMessage = "Please select a trend or enter your own keyword"

// Form is the raw submit-time input besides the keyword.
type Form struct {
	Count    string
	Category string // "" means any category
}

// ParseCount applies the count rule: the leading integer of the trimmed
// input ("5abc" is 5, "2.5" is 2), or model.DefaultCount when there is no
// leading integer or it is not positive.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return model.DefaultCount
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return model.DefaultCount
	}
	return n
}

// Validate builds the request from the resolved keyword and the form.
func Validate(src keyword.Source, f Form) (model.AnalysisRequest, error) {
	if src.Empty() {
		return model.AnalysisRequest{}, ErrEmptyKeyword
	}
	return model.AnalysisRequest{
		Keyword:  src.Value,
		Count:    ParseCount(f.Count),
		Category: strings.TrimSpace(f.Category),
	}, nil
}
