package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid_period")

// Period is a calendar month.
type Period struct {
	Year  int
	Month int
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// ParsePeriod parses the "YYYY-MM" form.
func ParsePeriod(raw string) (Period, error) {
	year, month, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok {
		return Period{}, ErrInvalidPeriod
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	p := Period{Year: y, Month: m}
	if !p.Valid() {
		return Period{}, ErrInvalidPeriod
	}
	return p, nil
}

func (p Period) Valid() bool {
	return p.Year > 0 && p.Month >= 1 && p.Month <= 12
}

func (p Period) index() int {
	return p.Year*12 + (p.Month - 1)
}

func periodFromIndex(i int) Period {
	return Period{Year: i / 12, Month: i%12 + 1}
}

// Add moves the period by n months; n may be negative.
func (p Period) Add(n int) Period {
	return periodFromIndex(p.index() + n)
}

func (p Period) Before(o Period) bool {
	return p.index() < o.index()
}

// MonthsSince returns how many months o lies before p.
func (p Period) MonthsSince(o Period) int {
	return p.index() - o.index()
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Range is an inclusive span of months.
type Range struct {
	From Period
	To   Period
}

// Months lists every period in the range in ascending order.
func (r Range) Months() []Period {
	if r.To.Before(r.From) {
		return nil
	}
	out := make([]Period, 0, r.To.MonthsSince(r.From)+1)
	for p := r.From; !r.To.Before(p); p = p.Add(1) {
		out = append(out, p)
	}
	return out
}

// Trailing returns the range of n months ending at (and including) end.
func Trailing(end Period, n int) Range {
	if n < 1 {
		n = 1
	}
	return Range{From: end.Add(-(n - 1)), To: end}
}
