package domain

import (
	"sort"
	"time"
)

// nightAccumulator collects per-date state during a single aggregation
// pass: the running sky-temperature mean and the current best reading.
type nightAccumulator struct {
	skyTempSum float64
	count      int
	best       Reading
}

// better reports whether candidate should replace the current winner.
// Higher MSAS wins; on an exact MSAS tie the earlier timestamp wins, so
// the result does not depend on input ordering.
func better(candidate, current Reading) bool {
	if candidate.MSAS != current.MSAS {
		return candidate.MSAS > current.MSAS
	}
	return candidate.Timestamp.Before(current.Timestamp)
}

// NightlyAggregate computes the plot-ready table for the inclusive date
// range [start, end]: night-window samples grouped by UTC calendar
// date, nights with mean sky temperature below ColdNightThreshold kept,
// and the max-MSAS reading selected per night. The input slice is never
// mutated; calling twice with the same arguments yields identical
// output. An empty result is valid and means no qualifying nights.
func NightlyAggregate(readings []Reading, start, end time.Time) []NightSummary {
	start = midnightUTC(start)
	end = midnightUTC(end)

	nights := make(map[time.Time]*nightAccumulator)
	for _, r := range readings {
		if r.UTCDate.Before(start) || r.UTCDate.After(end) {
			continue
		}
		if !r.InNightWindow() {
			continue
		}
		acc, ok := nights[r.UTCDate]
		if !ok {
			acc = &nightAccumulator{best: r}
			nights[r.UTCDate] = acc
		} else if better(r, acc.best) {
			acc.best = r
		}
		acc.skyTempSum += r.SkyTemp
		acc.count++
	}

	computedAt := clock.Now().UTC()
	summaries := make([]NightSummary, 0, len(nights))
	for date, acc := range nights {
		avg := acc.skyTempSum / float64(acc.count)
		if avg >= ColdNightThreshold {
			continue
		}
		summaries = append(summaries, NightSummary{
			Date:       date,
			AvgSkyTemp: avg,
			Reading:    acc.best,
			ComputedAt: computedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date.Before(summaries[j].Date)
	})
	return summaries
}

// DateRange returns the minimum and maximum UTCDate across the dataset,
// used to bound the dashboard's date picker. ok is false for an empty
// dataset.
func DateRange(readings []Reading) (minDate, maxDate time.Time, ok bool) {
	if len(readings) == 0 {
		return time.Time{}, time.Time{}, false
	}
	minDate, maxDate = readings[0].UTCDate, readings[0].UTCDate
	for _, r := range readings[1:] {
		if r.UTCDate.Before(minDate) {
			minDate = r.UTCDate
		}
		if r.UTCDate.After(maxDate) {
			maxDate = r.UTCDate
		}
	}
	return minDate, maxDate, true
}

// midnightUTC truncates a time to its UTC calendar date.
func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
