package model

import (
	"fmt"
	"time"
)

// ReportingPeriod is a caller-supplied window with inclusive day boundaries.
// Calendar days are evaluated in the location of From.
type ReportingPeriod struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewReportingPeriod builds a period and validates it.
func NewReportingPeriod(from, to time.Time) (*ReportingPeriod, error) {
	p := &ReportingPeriod{From: from, To: to}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate ensures both bounds are set and ordered.
func (p ReportingPeriod) Validate() error {
	if p.From.IsZero() {
		return fmt.Errorf("period start is required")
	}
	if p.To.IsZero() {
		return fmt.Errorf("period end is required")
	}
	if p.End().Before(p.Start()) {
		return fmt.Errorf("period end must not be before period start")
	}
	return nil
}

// Location returns the location calendar days are evaluated in.
func (p ReportingPeriod) Location() *time.Location {
	return p.From.Location()
}

// Start returns the first instant of the From day.
func (p ReportingPeriod) Start() time.Time {
	return DayStart(p.From, p.Location())
}

// End returns the last instant of the To day.
func (p ReportingPeriod) End() time.Time {
	return DayStart(p.To, p.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// Contains reports whether the calendar day of t lies within the period.
func (p ReportingPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start()) && !t.After(p.End())
}

// ContainsMonth reports whether the calendar month starting at monthStart
// lies between the From month and the To month inclusive.
func (p ReportingPeriod) ContainsMonth(monthStart time.Time) bool {
	first := MonthStart(p.From, p.Location())
	last := MonthStart(p.To, p.Location())
	m := MonthStart(monthStart, p.Location())
	return !m.Before(first) && !m.After(last)
}

// DayStart truncates t to midnight of its calendar day in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// MonthStart truncates t to the first instant of its calendar month in loc.
func MonthStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// MonthEnd returns the last instant of the calendar month containing t.
func MonthEnd(t time.Time, loc *time.Location) time.Time {
	return MonthStart(t, loc).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// MonthKey formats t as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
