package domain

import "sort"

// History is a mentee's submitted months, ascending and unique per period.
type History struct {
	rows  []MonthlyMetric
	index map[Period]int
}

func NewHistory(rows []MonthlyMetric) History {
	sorted := make([]MonthlyMetric, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Period().Before(sorted[j].Period())
	})

	h := History{index: make(map[Period]int, len(sorted))}
	for _, row := range sorted {
		p := row.Period()
		if i, ok := h.index[p]; ok {
			h.rows[i] = row
			continue
		}
		h.index[p] = len(h.rows)
		h.rows = append(h.rows, row)
	}
	return h
}

func (h History) Len() int { return len(h.rows) }

func (h History) Rows() []MonthlyMetric {
	out := make([]MonthlyMetric, len(h.rows))
	copy(out, h.rows)
	return out
}

// Lookup returns the row submitted for p, if any.
func (h History) Lookup(p Period) (MonthlyMetric, bool) {
	i, ok := h.index[p]
	if !ok {
		return MonthlyMetric{}, false
	}
	return h.rows[i], true
}

// Between returns rows whose period lies in r, ascending.
func (h History) Between(r Range) []MonthlyMetric {
	var out []MonthlyMetric
	for _, row := range h.rows {
		p := row.Period()
		if p.Before(r.From) || r.To.Before(p) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// LatestIn returns the most recent row inside r.
func (h History) LatestIn(r Range) (MonthlyMetric, bool) {
	rows := h.Between(r)
	if len(rows) == 0 {
		return MonthlyMetric{}, false
	}
	return rows[len(rows)-1], true
}
