package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upkeephq/upkeep/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDate_FixedFrequencies(t *testing.T) {
	start := date(2024, time.March, 15)

	tests := []struct {
		name string
		freq domain.Frequency
		want time.Time
	}{
		{"weekly", domain.FrequencyWeekly, date(2024, time.March, 22)},
		{"biweekly", domain.FrequencyBiweekly, date(2024, time.March, 29)},
		{"monthly", domain.FrequencyMonthly, date(2024, time.April, 15)},
		{"quarterly", domain.FrequencyQuarterly, date(2024, time.June, 15)},
		{"semiannual", domain.FrequencySemiannual, date(2024, time.September, 15)},
		{"annual", domain.FrequencyAnnual, date(2025, time.March, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDueDate(start, tt.freq, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextDueDate_FixedFrequenciesIgnoreCustomDays(t *testing.T) {
	start := date(2024, time.March, 15)
	days := 3

	for _, freq := range []domain.Frequency{
		domain.FrequencyWeekly, domain.FrequencyBiweekly, domain.FrequencyMonthly,
		domain.FrequencyQuarterly, domain.FrequencySemiannual, domain.FrequencyAnnual,
	} {
		withDays, err := NextDueDate(start, freq, &days)
		require.NoError(t, err)
		withoutDays, err := NextDueDate(start, freq, nil)
		require.NoError(t, err)
		assert.Equal(t, withoutDays, withDays, "frequency %s must ignore customDays", freq)
	}
}

func TestNextDueDate_Custom(t *testing.T) {
	start := date(2024, time.March, 15)

	t.Run("with day count", func(t *testing.T) {
		days := 45
		got, err := NextDueDate(start, domain.FrequencyCustom, &days)
		require.NoError(t, err)
		assert.Equal(t, start.AddDate(0, 0, 45), got)
	})

	t.Run("missing day count fails", func(t *testing.T) {
		_, err := NextDueDate(start, domain.FrequencyCustom, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrCustomDaysRequired))
	})

	t.Run("non-positive day count fails", func(t *testing.T) {
		zero := 0
		_, err := NextDueDate(start, domain.FrequencyCustom, &zero)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrCustomDaysRequired))

		negative := -7
		_, err = NextDueDate(start, domain.FrequencyCustom, &negative)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrCustomDaysRequired))
	})
}

func TestNextDueDate_InvalidFrequency(t *testing.T) {
	_, err := NextDueDate(date(2024, time.March, 15), domain.Frequency("fortnightly"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidFrequency))
}

func TestNextDueDate_CalendarClamping(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		freq  domain.Frequency
		want  time.Time
	}{
		{
			name:  "Jan 31 monthly clamps to leap-year Feb 29",
			start: date(2024, time.January, 31),
			freq:  domain.FrequencyMonthly,
			want:  date(2024, time.February, 29),
		},
		{
			name:  "Jan 31 monthly clamps to Feb 28 off leap years",
			start: date(2025, time.January, 31),
			freq:  domain.FrequencyMonthly,
			want:  date(2025, time.February, 28),
		},
		{
			name:  "Feb 29 annual clamps to Feb 28",
			start: date(2024, time.February, 29),
			freq:  domain.FrequencyAnnual,
			want:  date(2025, time.February, 28),
		},
		{
			name:  "Aug 31 quarterly clamps to Nov 30",
			start: date(2024, time.August, 31),
			freq:  domain.FrequencyQuarterly,
			want:  date(2024, time.November, 30),
		},
		{
			name:  "Dec 31 semiannual lands on Jun 30 next year",
			start: date(2024, time.December, 31),
			freq:  domain.FrequencySemiannual,
			want:  date(2025, time.June, 30),
		},
		{
			name:  "mid-month monthly needs no clamping",
			start: date(2024, time.April, 15),
			freq:  domain.FrequencyMonthly,
			want:  date(2024, time.May, 15),
		},
		{
			name:  "monthly across year boundary",
			start: date(2024, time.December, 31),
			freq:  domain.FrequencyMonthly,
			want:  date(2025, time.January, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDueDate(tt.start, tt.freq, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextDueDate_Deterministic(t *testing.T) {
	start := time.Date(2024, time.July, 4, 9, 30, 0, 0, time.UTC)

	first, err := NextDueDate(start, domain.FrequencyMonthly, nil)
	require.NoError(t, err)
	second, err := NextDueDate(start, domain.FrequencyMonthly, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Time-of-day is carried through unchanged.
	assert.Equal(t, 9, first.Hour())
	assert.Equal(t, 30, first.Minute())
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2024, time.June, 16, 22, 45, 12, 999, time.UTC)
	assert.Equal(t, date(2024, time.June, 16), StartOfDay(ts))

	// Non-UTC inputs are converted before truncation.
	loc := time.FixedZone("UTC+2", 2*3600)
	local := time.Date(2024, time.June, 17, 1, 0, 0, 0, loc) // 23:00 UTC Jun 16
	assert.Equal(t, date(2024, time.June, 16), StartOfDay(local))
}
