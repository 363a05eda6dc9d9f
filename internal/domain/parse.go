package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"

	// time.Parse accepts a fractional second after the seconds field
	// even when the layout omits it, so this covers both "22:30:05"
	// and "22:30:05.000".
	timestampLayout = "2006-01-02 15:04:05"
)

// MalformedRecordError describes a log row that failed schema
// validation. The loader skips such rows; the error carries enough
// context to locate the offending line in the source file.
type MalformedRecordError struct {
	Field string // schema field name, empty for row-level problems
	Err   error
}

func (e *MalformedRecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed record: %v", e.Err)
	}
	return fmt.Sprintf("malformed record: field %q: %v", e.Field, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// ParseReading parses one semicolon-delimited log row into a Reading,
// applying the positional schema documented in the package comment and
// deriving UTCDate and Hour. All failures are *MalformedRecordError.
func ParseReading(row string) (Reading, error) {
	fields := strings.Split(row, ";")
	if len(fields) != NumFields {
		return Reading{}, &MalformedRecordError{
			Err: fmt.Errorf("expected %d fields, got %d", NumFields, len(fields)),
		}
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	ts, utcDate, err := parseTimestamp(fields[0])
	if err != nil {
		return Reading{}, &MalformedRecordError{Field: "utc_timestamp", Err: err}
	}

	r := Reading{
		Timestamp: ts,
		LocalTime: fields[1],
		UTCDate:   utcDate,
		Hour:      ts.Hour(),
	}

	floatFields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"enclosure_temp", fields[2], &r.EnclosureTemp},
		{"sky_temp", fields[3], &r.SkyTemp},
		{"frequency", fields[4], &r.Frequency},
		{"msas", fields[5], &r.MSAS},
		{"zero_point", fields[6], &r.ZeroPoint},
	}
	for _, f := range floatFields {
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return Reading{}, &MalformedRecordError{Field: f.name, Err: err}
		}
		*f.dst = v
	}

	seq, err := strconv.Atoi(fields[7])
	if err != nil {
		return Reading{}, &MalformedRecordError{Field: "seq", Err: err}
	}
	r.Seq = seq

	return r, nil
}

// parseTimestamp decomposes an ISO-8601-like "date T time" string. Only
// the literal 'T' split is guaranteed by the instrument; the two halves
// are then validated independently so a bad date and a bad time are
// both surfaced as timestamp errors.
func parseTimestamp(raw string) (ts, utcDate time.Time, err error) {
	datePart, timePart, found := strings.Cut(raw, "T")
	if !found {
		return time.Time{}, time.Time{}, fmt.Errorf("missing 'T' separator in %q", raw)
	}

	utcDate, err = time.ParseInLocation(dateLayout, datePart, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date part: %w", err)
	}

	ts, err = time.ParseInLocation(timestampLayout, datePart+" "+timePart, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("time part: %w", err)
	}
	return ts, utcDate, nil
}
