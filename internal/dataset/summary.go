package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Column kinds reported by Summarize.
const (
	KindNumeric     = "numeric"
	KindDatetime    = "datetime"
	KindCategorical = "categorical"
	KindText        = "text"
	KindUnknown     = "unknown"
)

// ColumnSummary captures inferred type and basic statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// Summarize infers a kind per column by predominant parsed type.
func (t *Table) Summarize() []ColumnSummary {
	out := make([]ColumnSummary, 0, len(t.Columns))
	for _, name := range t.Columns {
		s := ColumnSummary{Name: name, Min: math.Inf(1), Max: math.Inf(-1)}
		var numCnt, dtCnt, txtCnt int
		var sum float64
		cats := map[string]int{}
		for i := range t.Rows {
			v := t.Value(i, name)
			if v == "" {
				s.Missing++
				continue
			}
			s.NonNull++
			if x, ok := parseNumeric(v, t.opt); ok {
				numCnt++
				sum += x
				if x < s.Min {
					s.Min = x
				}
				if x > s.Max {
					s.Max = x
				}
				continue
			}
			if _, ok := parseTimeMaybe(v); ok {
				dtCnt++
				continue
			}
			txtCnt++
			if len(v) <= 64 {
				cats[v]++
			}
		}
		switch {
		case numCnt >= dtCnt && numCnt >= txtCnt && numCnt > 0:
			s.Kind = KindNumeric
			s.Mean = sum / float64(numCnt)
		case dtCnt >= txtCnt && dtCnt > 0:
			s.Kind = KindDatetime
		case len(cats) > 0:
			s.Kind = KindCategorical
			tops := make([]CategoryCount, 0, len(cats))
			for k, v := range cats {
				tops = append(tops, CategoryCount{Value: k, Count: v})
			}
			sort.Slice(tops, func(i, j int) bool {
				if tops[i].Count == tops[j].Count {
					return tops[i].Value < tops[j].Value
				}
				return tops[i].Count > tops[j].Count
			})
			if len(tops) > 8 {
				tops = tops[:8]
			}
			s.TopValues = tops
			s.Unique = len(cats)
		case txtCnt > 0:
			s.Kind = KindText
		default:
			s.Kind = KindUnknown
		}
		if s.Kind != KindNumeric {
			s.Min, s.Max = 0, 0
		}
		out = append(out, s)
	}
	return out
}

// Describe renders a compact plain-text schema listing.
func (t *Table) Describe() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("File: %s\n", t.Name))
	b.WriteString(fmt.Sprintf("Rows: %d\n", t.Len()))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(t.Columns)))
	for _, c := range t.Summarize() {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %d)", c.Name, c.Kind, c.NonNull, c.Missing))
		switch c.Kind {
		case KindNumeric:
			b.WriteString(fmt.Sprintf(" min %.4g, max %.4g, mean %.4g", c.Min, c.Max, c.Mean))
		case KindCategorical:
			b.WriteString(" top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", kv.Value, kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
