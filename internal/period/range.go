package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ISOLayout matches JavaScript's Date.prototype.toISOString once the time is in UTC.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	ErrUnparsable    = errors.New("unparsable timestamp")
	ErrInvertedRange = errors.New("range start is after its end")
)

type TimeRange struct {
	From time.Time
	To   time.Time
}

// Last returns the range of length d ending at now.
func Last(now time.Time, d time.Duration) TimeRange {
	return TimeRange{From: now.Add(-d), To: now}
}

// Shift moves both ends by d.
func (r TimeRange) Shift(d time.Duration) TimeRange {
	return TimeRange{From: r.From.Add(d), To: r.To.Add(d)}
}

func (r TimeRange) Duration() time.Duration {
	return r.To.Sub(r.From)
}

// Minutes is the fractional length in minutes; 0.5 is thirty seconds.
func (r TimeRange) Minutes() float64 {
	return r.Duration().Minutes()
}

func (r TimeRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Equal compares instants, ignoring location and monotonic readings.
func (r TimeRange) Equal(o TimeRange) bool {
	return r.From.Equal(o.From) && r.To.Equal(o.To)
}

func (r TimeRange) String() string {
	return FormatISO(r.From) + "/" + FormatISO(r.To)
}

func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseTime accepts RFC 3339 with or without fractional seconds.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrUnparsable)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsable, s)
	}
	return t, nil
}

// ParseRange parses user input. Inverted ranges are rejected here so that
// nothing downstream has to handle them. from == to is accepted; validation
// against a kind's rule decides whether it can be queried.
func ParseRange(from, to string) (TimeRange, error) {
	f, err := ParseTime(from)
	if err != nil {
		return TimeRange{}, fmt.Errorf("invalid start: %w", err)
	}
	t, err := ParseTime(to)
	if err != nil {
		return TimeRange{}, fmt.Errorf("invalid end: %w", err)
	}
	return NewRange(f, t)
}

func NewRange(from, to time.Time) (TimeRange, error) {
	if from.After(to) {
		return TimeRange{}, ErrInvertedRange
	}
	return TimeRange{From: from, To: to}, nil
}
