package dashboard

import (
	"strings"

	"github.com/KaramelBytes/tipdash/internal/dataset"
)

// Selection is the sidebar's smoker filter choice.
type Selection string

const (
	SelectAll Selection = "all"
	SelectYes Selection = "yes"
	SelectNo  Selection = "no"
)

// Selections lists the sidebar options in display order.
var Selections = []Selection{SelectAll, SelectYes, SelectNo}

// ParseSelection maps a query or flag value to a Selection. Unknown values mean all.
func ParseSelection(s string) Selection {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "sim", "smoker", "smokers":
		return SelectYes
	case "no", "n", "nao", "não", "non-smoker", "non-smokers":
		return SelectNo
	default:
		return SelectAll
	}
}

// Label is the human-facing option text.
func (s Selection) Label() string {
	switch s {
	case SelectYes:
		return "Yes"
	case SelectNo:
		return "No"
	default:
		return "All"
	}
}

// FilterBySmoker returns the Filtered View for sel. SelectAll returns every row.
func FilterBySmoker(t *dataset.Table, sel Selection, opts Options) *dataset.Table {
	switch sel {
	case SelectYes:
		return t.Filter(t.Equals(ColSmoker, opts.SmokerYes))
	case SelectNo:
		return t.Filter(t.Equals(ColSmoker, opts.SmokerNo))
	default:
		return t.Filter(func(int) bool { return true })
	}
}
