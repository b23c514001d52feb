package selection_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/truthapi/pkg/selection"
)

type item struct {
	id    string
	level string
}

func (i item) ItemID() string      { return i.id }
func (i item) WeightLevel() string { return i.level }

func uniformTable(weights map[string]float64) selection.WeightTable {
	table := make(selection.WeightTable, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		table[d] = weights
	}
	return table
}

func TestSelect_Distribution(t *testing.T) {
	t.Parallel()

	items := []item{{"a", "light"}, {"b", "heavy"}}
	table := uniformTable(map[string]float64{"light": 1, "heavy": 5})
	engine := selection.New[item](selection.WithSeed(42))

	const draws = 10000
	counts := map[string]int{}
	for range draws {
		got, err := engine.Select(items, time.Monday, table)
		require.NoError(t, err)
		counts[got.id]++
	}

	// Expected share of "b" is 5/6 ≈ 0.833
	share := float64(counts["b"]) / draws
	assert.InDelta(t, 5.0/6.0, share, 0.02)
}

func TestSelect_ZeroWeightNeverChosen(t *testing.T) {
	t.Parallel()

	items := []item{{"a", "light"}, {"b", "off"}, {"c", "light"}, {"d", "off"}}
	table := uniformTable(map[string]float64{"light": 1, "off": 0})
	engine := selection.New[item](selection.WithSeed(7))

	for range 2000 {
		got, err := engine.Select(items, time.Sunday, table)
		require.NoError(t, err)
		assert.Equal(t, "light", got.level)
	}
}

func TestSelect_Deterministic(t *testing.T) {
	t.Parallel()

	items := []item{{"a", "x"}, {"b", "y"}, {"c", "z"}}
	table := uniformTable(map[string]float64{"x": 1, "y": 2, "z": 3})

	run := func() []string {
		engine := selection.New[item](selection.WithSeed(2024))
		out := make([]string, 0, 50)
		for range 50 {
			got, err := engine.Select(items, time.Friday, table)
			require.NoError(t, err)
			out = append(out, got.id)
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestSelect_DayChangesWeights(t *testing.T) {
	t.Parallel()

	items := []item{{"weekday", "work"}, {"weekend", "rest"}}
	table := selection.WeightTable{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d == time.Saturday || d == time.Sunday {
			table[d] = map[string]float64{"work": 0, "rest": 1}
		} else {
			table[d] = map[string]float64{"work": 1, "rest": 0}
		}
	}

	saturday := time.Date(2024, time.March, 2, 23, 30, 0, 0, time.UTC)
	engine := selection.New[item](selection.WithSeed(1), selection.WithClock(func() time.Time { return saturday }))

	got, day, err := engine.SelectToday(items, table)
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, day)
	assert.Equal(t, "weekend", got.id)

	// 23:30 in UTC-05:00 is already Sunday 04:30 UTC
	eastern := time.FixedZone("EST", -5*3600)
	late := time.Date(2024, time.March, 2, 23, 30, 0, 0, eastern)
	engine = selection.New[item](selection.WithClock(func() time.Time { return late }))
	assert.Equal(t, time.Sunday, engine.Today())

	got, err = engine.Select(items, time.Wednesday, table)
	require.NoError(t, err)
	assert.Equal(t, "weekday", got.id)
}

func TestSelect_Errors(t *testing.T) {
	t.Parallel()

	engine := selection.New[item](selection.WithSeed(1))
	table := uniformTable(map[string]float64{"light": 1})

	t.Run("empty collection", func(t *testing.T) {
		t.Parallel()

		_, err := engine.Select(nil, time.Monday, table)
		assert.ErrorIs(t, err, selection.ErrNoCandidates)
	})

	t.Run("missing level", func(t *testing.T) {
		t.Parallel()

		_, err := engine.Select([]item{{"a", "heavy"}}, time.Monday, table)
		assert.ErrorIs(t, err, selection.ErrConfiguration)
	})

	t.Run("missing day", func(t *testing.T) {
		t.Parallel()

		partial := selection.WeightTable{time.Monday: {"light": 1}}
		_, err := engine.Select([]item{{"a", "light"}}, time.Tuesday, partial)
		assert.ErrorIs(t, err, selection.ErrConfiguration)
	})

	t.Run("zero total", func(t *testing.T) {
		t.Parallel()

		zero := uniformTable(map[string]float64{"light": 0})
		_, err := engine.Select([]item{{"a", "light"}}, time.Monday, zero)
		assert.ErrorIs(t, err, selection.ErrConfiguration)
	})
}

func TestSelect_Concurrent(t *testing.T) {
	t.Parallel()

	items := []item{{"a", "x"}, {"b", "y"}}
	table := uniformTable(map[string]float64{"x": 1, "y": 1})
	engine := selection.New[item]()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				_, err := engine.Select(items, time.Tuesday, table)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

func TestSelectByID(t *testing.T) {
	t.Parallel()

	items := []item{{"a", "x"}, {"b", "y"}}

	got, err := selection.SelectByID(items, "b")
	require.NoError(t, err)
	assert.Equal(t, "y", got.level)

	_, err = selection.SelectByID(items, "zzz")
	assert.ErrorIs(t, err, selection.ErrNotFound)

	_, err = selection.SelectByID([]item{}, "a")
	assert.ErrorIs(t, err, selection.ErrNotFound)
}
