package domain

import (
	"math"
	"time"
)

// NumFields is the number of semicolon-delimited fields in a log row.
const NumFields = 8

// Night window bounds (UTC hours, inclusive). A sample is a night
// sample when Hour >= NightStartHour or Hour <= NightEndHour.
const (
	NightStartHour = 21
	NightEndHour   = 4
)

// ColdNightThreshold is the mean sky temperature (°C) below which a
// night is considered cloud-free enough to plot.
const ColdNightThreshold = 0.0

// Reading is one photometer sample parsed from a log row.
type Reading struct {
	Timestamp     time.Time `json:"timestamp"`      // full UTC sample time
	LocalTime     string    `json:"local_time"`     // raw local timestamp field, unused downstream
	EnclosureTemp float64   `json:"enclosure_temp"` // °C
	SkyTemp       float64   `json:"sky_temp"`       // °C
	Frequency     float64   `json:"frequency"`      // Hz
	MSAS          float64   `json:"msas"`           // mag/arcsec²
	ZeroPoint     float64   `json:"zero_point"`
	Seq           int       `json:"seq"`

	// Derived at parse time.
	UTCDate time.Time `json:"utc_date"` // calendar date at midnight UTC
	Hour    int       `json:"hour"`     // 0–23, UTC
}

// InNightWindow reports whether the reading falls in the night window.
func (r Reading) InNightWindow() bool {
	return r.Hour >= NightStartHour || r.Hour <= NightEndHour
}

// NightSummary is the plot-ready row for one qualifying night: the
// darkest reading of a cold night, keyed by UTC calendar date.
type NightSummary struct {
	Date       time.Time `json:"date"`         // UTC calendar-date bucket
	AvgSkyTemp float64   `json:"avg_sky_temp"` // mean over the night-window samples
	Reading    Reading   `json:"reading"`      // winning (max-MSAS) sample
	ComputedAt time.Time `json:"computed_at"`
}

// Label returns the rounded sky temperature of the winning reading,
// which the dashboard renders next to each plotted point.
func (s NightSummary) Label() int {
	return int(math.Round(s.Reading.SkyTemp))
}
