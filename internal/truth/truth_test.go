package truth_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/truthapi/internal/truth"
	"github.com/dmitrymomot/truthapi/pkg/selection"
)

func table(levels ...string) selection.WeightTable {
	weights := make(map[string]float64, len(levels))
	for _, l := range levels {
		weights[l] = 1
	}
	t := make(selection.WeightTable, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		t[d] = weights
	}
	return t
}

var sample = []truth.Truth{
	{ID: "t1", Text: "I once ate a whole pizza alone.", Category: "food", Weight: "light"},
	{ID: "t2", Text: "I have never seen the sea.", Category: "travel", Weight: "heavy"},
	{ID: "t3", Text: "I sing in the shower.", Category: "habits", Weight: "light"},
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello world"},
		{"  hello   world  ", "hello world"},
		{"ＨＥＬＬＯ world", "hello world"},
		{"ﬁne", "fine"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truth.Normalize(tt.in), tt.in)
	}
}

func TestRulesValidate(t *testing.T) {
	t.Parallel()

	rules := truth.Rules{MinCount: 1, AllowedWeights: []string{"light", "heavy"}, NormalizeText: true}
	require.NoError(t, rules.Validate(sample))

	tests := []struct {
		name  string
		rules truth.Rules
		items []truth.Truth
		want  string
	}{
		{
			name:  "below minimum",
			rules: truth.Rules{MinCount: 5},
			items: sample,
			want:  "below the minimum of 5",
		},
		{
			name:  "duplicate id",
			rules: rules,
			items: append(sample[:1:1], truth.Truth{ID: "t1", Text: "other", Weight: "light"}),
			want:  `duplicate id "t1"`,
		},
		{
			name:  "duplicate normalized text",
			rules: rules,
			items: append(sample[:1:1], truth.Truth{ID: "t9", Text: "  i once ATE a whole pizza   alone. ", Weight: "light"}),
			want:  `duplicates the text of "t1"`,
		},
		{
			name:  "disallowed weight",
			rules: rules,
			items: []truth.Truth{{ID: "x", Text: "x", Weight: "spicy"}},
			want:  `weight "spicy" is not one of`,
		},
		{
			name:  "missing text",
			rules: rules,
			items: []truth.Truth{{ID: "x", Weight: "light"}},
			want:  "text is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.rules.Validate(tt.items)
			require.ErrorIs(t, err, truth.ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("case-sensitive comparison without normalization", func(t *testing.T) {
		t.Parallel()

		items := []truth.Truth{
			{ID: "a", Text: "Same", Weight: "light"},
			{ID: "b", Text: "same", Weight: "light"},
		}
		assert.NoError(t, truth.Rules{}.Validate(items))
		assert.Error(t, truth.Rules{NormalizeText: true}.Validate(items))
	})
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	snap, err := truth.NewSnapshot(sample, table("light", "heavy"), truth.Rules{})
	require.NoError(t, err)

	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, []string{"food", "habits", "travel"}, snap.Categories())

	got, ok := snap.Get("t2")
	require.True(t, ok)
	assert.Equal(t, "heavy", got.Weight)
	_, ok = snap.Get("nope")
	assert.False(t, ok)

	for _, tr := range snap.InCategory("habits") {
		assert.Equal(t, "habits", tr.Category)
	}
	assert.NotEmpty(t, snap.InCategory("habits"))
	assert.Nil(t, snap.InCategory("unknown"))

	stats := snap.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[string]int{"light": 2, "heavy": 1}, stats.Weights)
	stats.Weights["light"] = 100
	assert.Equal(t, 2, snap.Stats().Weights["light"], "stats must be a copy")

	_, err = truth.NewSnapshot(sample, table("light"), truth.Rules{})
	require.ErrorIs(t, err, truth.ErrInvalid)
	assert.ErrorIs(t, err, selection.ErrConfiguration)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	items, err := truth.Decode([]byte(`{"truths":[{"id":"a","truth":"text","category":"c","weight":"light"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []truth.Truth{{ID: "a", Text: "text", Category: "c", Weight: "light"}}, items)

	for _, doc := range []string{`{}`, `not json`, `{"truths":[{"id":"a","extra":1}]}`} {
		_, err := truth.Decode([]byte(doc))
		assert.ErrorIs(t, err, truth.ErrDecode, doc)
	}
}

func writeTruths(t *testing.T, path, doc string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "truths.json")
	writeTruths(t, path, `{"truths":[{"id":"a","truth":"x","category":"c","weight":"light"}]}`)

	src := truth.NewFileSource(path)
	items, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "file:"+path, src.String())

	_, err = truth.NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	assert.ErrorIs(t, err, truth.ErrSource)
}

type fakeRedis struct {
	val string
	err error
}

func (f fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	return redis.NewStringResult(f.val, f.err)
}

func TestRedisSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	src := truth.NewRedisSource(fakeRedis{val: `{"truths":[{"id":"a","truth":"x","category":"c","weight":"light"}]}`}, "app:truths")
	items, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "redis:app:truths", src.String())

	_, err = truth.NewRedisSource(fakeRedis{err: redis.Nil}, "k").Load(ctx)
	require.ErrorIs(t, err, truth.ErrSource)
	assert.Contains(t, err.Error(), "does not exist")

	_, err = truth.NewRedisSource(fakeRedis{err: errors.New("connection refused")}, "k").Load(ctx)
	assert.ErrorIs(t, err, truth.ErrSource)
}

func TestStore_ReloadKeepsPreviousOnFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "truths.json")
	writeTruths(t, path, `{"truths":[{"id":"a","truth":"one","category":"c","weight":"light"}]}`)

	store := truth.NewStore(truth.NewFileSource(path), table("light"), truth.Rules{MinCount: 1})

	_, err := store.Snapshot()
	require.ErrorIs(t, err, truth.ErrNotLoaded)
	require.ErrorIs(t, store.Healthcheck(ctx), truth.ErrNotLoaded)

	require.NoError(t, store.Load(ctx))
	assert.NoError(t, store.Healthcheck(ctx))
	first, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1, first.Len())

	// Invalid content: duplicate ids
	writeTruths(t, path, `{"truths":[
		{"id":"a","truth":"one","category":"c","weight":"light"},
		{"id":"a","truth":"two","category":"c","weight":"light"}]}`)
	_, err = store.Reload(ctx)
	require.ErrorIs(t, err, truth.ErrInvalid)

	current, err := store.Snapshot()
	require.NoError(t, err)
	assert.Same(t, first, current)

	writeTruths(t, path, `{"truths":[
		{"id":"a","truth":"one","category":"c","weight":"light"},
		{"id":"b","truth":"two","category":"c","weight":"light"}]}`)
	next, err := store.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Len())
	assert.Equal(t, int64(2), store.Reloads())
}

type blockingSource struct {
	release chan struct{}
	started chan struct{}
	once    sync.Once
}

func (s *blockingSource) Load(ctx context.Context) ([]truth.Truth, error) {
	s.once.Do(func() { close(s.started) })
	<-s.release
	return []truth.Truth{{ID: "a", Text: "x", Weight: "light"}}, nil
}

func (s *blockingSource) String() string { return "blocking" }

func TestStore_ConcurrentReloadFailsFast(t *testing.T) {
	t.Parallel()

	src := &blockingSource{release: make(chan struct{}), started: make(chan struct{})}
	store := truth.NewStore(src, table("light"), truth.Rules{})

	done := make(chan error, 1)
	go func() {
		_, err := store.Reload(context.Background())
		done <- err
	}()
	<-src.started

	_, err := store.Reload(context.Background())
	assert.ErrorIs(t, err, truth.ErrReloadInUse)

	close(src.release)
	assert.NoError(t, <-done)
	assert.True(t, store.Loaded())
}
