package domain_test

import (
	"testing"
	"time"

	"github.com/darkridge/nightsky-etl/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozenNow = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(frozenNow))
	t.Cleanup(func() { domain.SetClock(nil) })
}

// makeReading builds a night-window-or-not reading at the given day/hour.
func makeReading(t *testing.T, day, hour int, skyTemp, msas float64) domain.Reading {
	t.Helper()
	ts := time.Date(2024, time.January, day, hour, 30, 0, 0, time.UTC)
	return domain.Reading{
		Timestamp: ts,
		SkyTemp:   skyTemp,
		MSAS:      msas,
		UTCDate:   time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
		Hour:      hour,
	}
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestInNightWindow(t *testing.T) {
	tests := []struct {
		hour int
		want bool
	}{
		{hour: 23, want: true},
		{hour: 21, want: true},
		{hour: 3, want: true},
		{hour: 4, want: true},
		{hour: 0, want: true},
		{hour: 12, want: false},
		{hour: 20, want: false},
		{hour: 5, want: false},
	}
	for _, tt := range tests {
		r := domain.Reading{Hour: tt.hour}
		assert.Equal(t, tt.want, r.InNightWindow(), "hour %d", tt.hour)
	}
}

func TestNightlyAggregate_ColdNightSelection(t *testing.T) {
	freezeClock(t)

	readings := []domain.Reading{
		// Night of Jan 15: mean sky temp -2.0, qualifies.
		makeReading(t, 15, 22, -1.0, 18.2),
		makeReading(t, 15, 23, -3.0, 19.6),
		// Night of Jan 16: mean sky temp +1.0, rejected.
		makeReading(t, 16, 22, 0.5, 21.0),
		makeReading(t, 16, 23, 1.5, 21.2),
	}

	got := domain.NightlyAggregate(readings, day(1), day(31))
	require.Len(t, got, 1)
	assert.Equal(t, day(15), got[0].Date)
	assert.InDelta(t, -2.0, got[0].AvgSkyTemp, 1e-9)
}

func TestNightlyAggregate_MaxMSASWinsWithOwnFields(t *testing.T) {
	freezeClock(t)

	readings := []domain.Reading{
		makeReading(t, 15, 21, -1.0, 18.2),
		makeReading(t, 15, 23, -4.0, 19.6),
		makeReading(t, 15, 22, -2.0, 17.9),
	}

	got := domain.NightlyAggregate(readings, day(15), day(15))
	require.Len(t, got, 1)

	want := domain.NightSummary{
		Date:       day(15),
		AvgSkyTemp: (-1.0 + -4.0 + -2.0) / 3,
		Reading:    makeReading(t, 15, 23, -4.0, 19.6),
		ComputedAt: frozenNow,
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestNightlyAggregate_TieBrokenByEarliestTimestamp(t *testing.T) {
	freezeClock(t)

	later := makeReading(t, 15, 23, -2.0, 19.6)
	earlier := makeReading(t, 15, 21, -2.0, 19.6)

	// Later sample listed first: the earlier one must still win.
	got := domain.NightlyAggregate([]domain.Reading{later, earlier}, day(15), day(15))
	require.Len(t, got, 1)
	assert.Equal(t, earlier.Timestamp, got[0].Reading.Timestamp)

	// Input order reversed yields the same winner.
	again := domain.NightlyAggregate([]domain.Reading{earlier, later}, day(15), day(15))
	require.Len(t, again, 1)
	assert.Equal(t, earlier.Timestamp, again[0].Reading.Timestamp)
}

func TestNightlyAggregate_DaytimeExcluded(t *testing.T) {
	freezeClock(t)

	readings := []domain.Reading{
		makeReading(t, 15, 12, -10.0, 22.0), // daytime, never counted
		makeReading(t, 15, 23, -1.0, 19.0),
	}

	got := domain.NightlyAggregate(readings, day(15), day(15))
	require.Len(t, got, 1)
	assert.Equal(t, 19.0, got[0].Reading.MSAS)
	assert.InDelta(t, -1.0, got[0].AvgSkyTemp, 1e-9)
}

func TestNightlyAggregate_RangeInclusive(t *testing.T) {
	freezeClock(t)

	readings := []domain.Reading{
		makeReading(t, 14, 23, -1.0, 19.0),
		makeReading(t, 15, 23, -1.0, 19.1),
		makeReading(t, 16, 23, -1.0, 19.2),
	}

	got := domain.NightlyAggregate(readings, day(14), day(15))
	require.Len(t, got, 2)
	assert.Equal(t, day(14), got[0].Date)
	assert.Equal(t, day(15), got[1].Date)
}

func TestNightlyAggregate_EmptyRange(t *testing.T) {
	freezeClock(t)

	readings := []domain.Reading{makeReading(t, 15, 23, -1.0, 19.0)}

	got := domain.NightlyAggregate(readings, day(20), day(25))
	assert.Empty(t, got)
}

func TestNightlyAggregate_PostMidnightBucketsUnderOwnDate(t *testing.T) {
	freezeClock(t)

	// 01:00 on Jan 16 belongs, from the observer's point of view, to the
	// night that started on Jan 15 — but it buckets under Jan 16.
	readings := []domain.Reading{
		makeReading(t, 15, 23, -1.0, 19.0),
		makeReading(t, 16, 1, -1.0, 19.5),
	}

	got := domain.NightlyAggregate(readings, day(15), day(16))
	require.Len(t, got, 2)
	assert.Equal(t, day(15), got[0].Date)
	assert.Equal(t, day(16), got[1].Date)
}

func TestNightlyAggregate_Idempotent(t *testing.T) {
	freezeClock(t)

	readings := []domain.Reading{
		makeReading(t, 15, 22, -1.0, 18.2),
		makeReading(t, 15, 23, -3.0, 19.6),
		makeReading(t, 16, 2, -2.0, 20.1),
	}

	first := domain.NightlyAggregate(readings, day(1), day(31))
	second := domain.NightlyAggregate(readings, day(1), day(31))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("aggregation not idempotent (-first +second):\n%s", diff)
	}
}

func TestDateRange(t *testing.T) {
	readings := []domain.Reading{
		makeReading(t, 20, 23, -1.0, 19.0),
		makeReading(t, 5, 23, -1.0, 19.0),
		makeReading(t, 12, 23, -1.0, 19.0),
	}

	minDate, maxDate, ok := domain.DateRange(readings)
	require.True(t, ok)
	assert.Equal(t, day(5), minDate)
	assert.Equal(t, day(20), maxDate)

	_, _, ok = domain.DateRange(nil)
	assert.False(t, ok)
}

func TestNightSummary_Label(t *testing.T) {
	s := domain.NightSummary{Reading: domain.Reading{SkyTemp: -4.4}}
	assert.Equal(t, -4, s.Label())

	s = domain.NightSummary{Reading: domain.Reading{SkyTemp: -4.6}}
	assert.Equal(t, -5, s.Label())
}

func TestBrightnessScale_Static(t *testing.T) {
	require.Len(t, domain.BrightnessScale, 8)
	for i, band := range domain.BrightnessScale {
		assert.Less(t, band.Min, band.Max, "band %d", i)
		assert.NotEmpty(t, band.Name)
		assert.NotEmpty(t, band.Color)
	}
}
