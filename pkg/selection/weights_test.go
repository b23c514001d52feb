package selection_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/truthapi/pkg/selection"
)

func TestWeightTableValidate(t *testing.T) {
	t.Parallel()

	levels := []string{"light", "heavy"}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		table := uniformTable(map[string]float64{"light": 1, "heavy": 0, "unused": 9})
		assert.NoError(t, table.Validate(levels))
	})

	tests := []struct {
		name   string
		mutate func(selection.WeightTable)
		want   string
	}{
		{
			name:   "missing weekday",
			mutate: func(tb selection.WeightTable) { delete(tb, time.Thursday) },
			want:   "missing weekday Thursday",
		},
		{
			name:   "missing level",
			mutate: func(tb selection.WeightTable) { tb[time.Monday] = map[string]float64{"light": 1} },
			want:   `Monday: missing weight for level "heavy"`,
		},
		{
			name:   "negative weight",
			mutate: func(tb selection.WeightTable) { tb[time.Friday] = map[string]float64{"light": -1, "heavy": 2} },
			want:   "finite non-negative",
		},
		{
			name:   "infinite weight",
			mutate: func(tb selection.WeightTable) { tb[time.Friday] = map[string]float64{"light": math.Inf(1), "heavy": 2} },
			want:   "finite non-negative",
		},
		{
			name:   "zero total",
			mutate: func(tb selection.WeightTable) { tb[time.Sunday] = map[string]float64{"light": 0, "heavy": 0} },
			want:   "total weight",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table := selection.WeightTable{}
			for d := time.Sunday; d <= time.Saturday; d++ {
				table[d] = map[string]float64{"light": 1, "heavy": 1}
			}
			tt.mutate(table)

			err := table.Validate(levels)
			require.ErrorIs(t, err, selection.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLevels(t *testing.T) {
	t.Parallel()

	items := []item{{"a", "heavy"}, {"b", "light"}, {"c", "heavy"}}
	assert.Equal(t, []string{"heavy", "light"}, selection.Levels(items))
	assert.Empty(t, selection.Levels([]item{}))
}

func TestParseWeekday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Weekday
	}{
		{"monday", time.Monday},
		{"Friday", time.Friday},
		{" SUNDAY ", time.Sunday},
	}
	for _, tt := range tests {
		got, err := selection.ParseWeekday(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := selection.ParseWeekday("funday")
	assert.ErrorIs(t, err, selection.ErrConfiguration)
}
