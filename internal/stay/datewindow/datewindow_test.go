package datewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetweenInclusive(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day counts as one", Date(2024, 3, 10), Date(2024, 3, 10), 1},
		{"two weeks", Date(2024, 1, 1), Date(2024, 1, 15), 15},
		{"across month boundary", Date(2024, 1, 30), Date(2024, 2, 2), 4},
		{"across leap day", Date(2024, 2, 28), Date(2024, 3, 1), 3},
		{"non-leap february", Date(2023, 2, 28), Date(2023, 3, 1), 2},
		{"across year boundary", Date(2023, 12, 31), Date(2024, 1, 1), 2},
		{"full leap year", Date(2024, 1, 1), Date(2024, 12, 31), 366},
		{"inverted range is zero", Date(2024, 1, 10), Date(2024, 1, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetweenInclusive(tt.start, tt.end))
		})
	}
}

func TestDaysBetweenInclusive_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysBetweenInclusive(start, end))

	bangkok := time.FixedZone("ICT", 7*60*60)
	local := time.Date(2024, 6, 1, 6, 0, 0, 0, bangkok)
	assert.Equal(t, Date(2024, 6, 1), Truncate(local))
}

func TestDaysBetweenInclusive_SameDayIsOne(t *testing.T) {
	d := Date(2020, 1, 1)
	for i := 0; i < 1500; i++ {
		require.Equal(t, 1, DaysBetweenInclusive(d, d), "date %s", d)
		d = AddDays(d, 1)
	}
}

func TestIntersect(t *testing.T) {
	window := NewRange(Date(2024, 1, 10), Date(2024, 1, 20))

	t.Run("contained range is returned unchanged", func(t *testing.T) {
		got, ok := Intersect(window, NewRange(Date(2024, 1, 12), Date(2024, 1, 14)))
		require.True(t, ok)
		assert.Equal(t, 3, got.Days())
	})

	t.Run("partial overlap is clipped", func(t *testing.T) {
		got, ok := Intersect(window, NewRange(Date(2024, 1, 1), Date(2024, 1, 12)))
		require.True(t, ok)
		assert.Equal(t, Date(2024, 1, 10), got.Start)
		assert.Equal(t, Date(2024, 1, 12), got.End)
	})

	t.Run("touching ranges overlap by one day", func(t *testing.T) {
		got, ok := Intersect(window, NewRange(Date(2024, 1, 20), Date(2024, 1, 25)))
		require.True(t, ok)
		assert.Equal(t, 1, got.Days())
	})

	t.Run("disjoint ranges are empty", func(t *testing.T) {
		_, ok := Intersect(window, NewRange(Date(2024, 1, 21), Date(2024, 1, 25)))
		assert.False(t, ok)
	})

	t.Run("inverted range never intersects", func(t *testing.T) {
		_, ok := Intersect(window, Range{Start: Date(2024, 1, 15), End: Date(2024, 1, 11)})
		assert.False(t, ok)
	})
}

func TestWindows(t *testing.T) {
	t.Run("trailing window includes its end", func(t *testing.T) {
		w := Trailing(Date(2024, 6, 1), 180)
		assert.Equal(t, 180, w.Days())
		assert.Equal(t, Date(2023, 12, 5), w.Start)
	})

	t.Run("leading window includes its start", func(t *testing.T) {
		w := Leading(Date(2024, 3, 1), 365)
		assert.Equal(t, 365, w.Days())
		assert.Equal(t, Date(2025, 2, 28), w.End)
	})

	t.Run("calendar year", func(t *testing.T) {
		y := YearOf(Date(2023, 7, 4))
		assert.Equal(t, Date(2023, 1, 1), y.Start)
		assert.Equal(t, Date(2023, 12, 31), y.End)
		assert.True(t, y.Contains(Date(2023, 12, 31)))
		assert.False(t, y.Contains(Date(2024, 1, 1)))
	})
}
