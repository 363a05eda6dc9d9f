// Package domain models TESS photometer sky-brightness log data.
//
// # Data Source
//
// Readings originate from a TESS-W photometer writing one .dat log file
// per observing day, named "<instrument>_<year>-<month>-<day>.dat"
// (e.g. "stars927_2024-01-15.dat"). Each file opens with a 35-line
// instrument preamble (station metadata, calibration constants, column
// legend) that carries no per-sample data and is discarded on load.
//
// # Row Format
//
// After the preamble, every line is one sample: 8 semicolon-delimited
// positional fields with no header row.
//
//	0  UTC timestamp    "2024-01-15T22:30:05.000" (literal 'T' separator)
//	1  local timestamp  free-form string, carried but unused downstream
//	2  enclosure temp   °C, decimal
//	3  sky temp         °C, decimal (IR sky-temperature sensor)
//	4  frequency        Hz, decimal (raw sensor frequency)
//	5  MSAS             mag/arcsec², decimal (sky brightness; higher = darker)
//	6  zero point       decimal (calibration constant)
//	7  sequence number  integer
//
// The timestamp is decomposed by splitting on 'T': the date part must
// parse as "2006-01-02" and date+time as "2006-01-02 15:04:05" with an
// optional fractional-second suffix, both in UTC. UTCDate and Hour are
// derived once at parse time and never recomputed downstream.
//
// # Nightly Aggregation
//
// A sample belongs to the night window when its hour is >= 21 or <= 4
// UTC. Samples are bucketed by their own UTC calendar date, so readings
// taken after midnight land under the next date rather than the night's
// evening start date. This is a known modeling quirk inherited from the
// dashboard this service backs; it is preserved, not corrected, so the
// plotted points stay comparable with historical charts.
//
// A night qualifies for plotting when its mean sky temperature is below
// 0 °C (a low IR sky temperature is a proxy for a cloud-free sky). For
// each qualifying night the single darkest sample (maximum MSAS) is
// selected; MSAS ties are broken by earliest timestamp so the output is
// deterministic under any input ordering.
package domain
