package reservations

import (
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/avelarde/reservline-backend/pkg/errors"
)

// timeLayout is the persisted timestamp format. Values are normalized to UTC
// and truncated to whole seconds before storage so the fixed-width RFC3339
// text sorts chronologically.
const timeLayout = time.RFC3339

const dateLayout = "2006-01-02"

// Interval is a half-open time range [Start, End) occupied by a reservation.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval parses and validates a start/end timestamp pair. Both values
// are required, must parse as ISO-8601, and the start must precede the end.
func NewInterval(start, end string) (Interval, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return Interval{}, pkgerrors.New(pkgerrors.CodeValidation, "start_time and end_time are required")
	}

	startAt, err := parseTimestamp(start)
	if err != nil {
		return Interval{}, err
	}
	endAt, err := parseTimestamp(end)
	if err != nil {
		return Interval{}, err
	}

	if !startAt.Before(endAt) {
		return Interval{}, pkgerrors.New(pkgerrors.CodeValidation, "end_time must be after start_time")
	}

	return Interval{Start: startAt, End: endAt}, nil
}

// Overlaps reports whether two half-open intervals share any point in time.
// Touching endpoints do not overlap, so back-to-back slots are legal.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Equal reports whether both endpoints match exactly. Used for exact-slot
// cancellation, never for conflict detection.
func (i Interval) Equal(o Interval) bool {
	return i.Start.Equal(o.Start) && i.End.Equal(o.End)
}

// StartString returns the persisted form of the start endpoint.
func (i Interval) StartString() string {
	return i.Start.Format(timeLayout)
}

// EndString returns the persisted form of the end endpoint.
func (i Interval) EndString() string {
	return i.End.Format(timeLayout)
}

func parseTimestamp(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.UTC().Truncate(time.Second), nil
	}
	// The voice platform occasionally sends offset-less timestamps; treat
	// those as UTC.
	if ts, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return ts.UTC().Truncate(time.Second), nil
	}
	return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("invalid datetime %q, use ISO 8601 format (e.g. 2024-01-15T10:00:00Z)", value))
}

// Range is an optional inclusive [Start, End] filter over reservation start
// times. A nil bound leaves that side unbounded.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// NewRange parses optional list-filter bounds. Each bound accepts either a
// plain date or a full timestamp; a date-only upper bound covers its whole day.
func NewRange(startDate, endDate string) (Range, error) {
	var rng Range

	startDate = strings.TrimSpace(startDate)
	endDate = strings.TrimSpace(endDate)

	if startDate != "" {
		bound, err := parseBound(startDate, false)
		if err != nil {
			return Range{}, err
		}
		rng.Start = &bound
	}
	if endDate != "" {
		bound, err := parseBound(endDate, true)
		if err != nil {
			return Range{}, err
		}
		rng.End = &bound
	}
	return rng, nil
}

func parseBound(value string, endOfDay bool) (time.Time, error) {
	if day, err := time.Parse(dateLayout, value); err == nil {
		if endOfDay {
			return day.Add(24*time.Hour - time.Second).UTC(), nil
		}
		return day.UTC(), nil
	}
	if ts, err := parseTimestamp(value); err == nil {
		return ts, nil
	}
	return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("invalid date filter %q, use YYYY-MM-DD or an ISO 8601 timestamp", value))
}
