package cache

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/dmitrijs2005/pressroom/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract runs the behaviour shared by every Store backend.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, "articles:item:1")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, "articles:item:1", []byte(`{"id":1}`), time.Hour))
	require.NoError(t, s.Set(ctx, "articles:list:page=1:limit=10", []byte(`{}`), time.Hour))
	require.NoError(t, s.Set(ctx, "articles:list:page=2:limit=10", []byte(`{}`), time.Hour))
	require.NoError(t, s.Set(ctx, "users:list:page=1:limit=10", []byte(`{}`), time.Hour))

	got, err := s.Get(ctx, "articles:item:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(got))

	keys, err := s.Keys(ctx, "articles:list:")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"articles:list:page=1:limit=10", "articles:list:page=2:limit=10"}, keys)

	require.NoError(t, s.Delete(ctx, "articles:item:1"))
	_, err = s.Get(ctx, "articles:item:1")
	require.ErrorIs(t, err, ErrMiss)

	// deleting an absent key is not an error
	require.NoError(t, s.Delete(ctx, "articles:item:404"))
}

func TestMemoryStore_Contract(t *testing.T) {
	storeContract(t, NewMemoryStore(100, time.Hour))
}

func TestBadgerStore_Contract(t *testing.T) {
	s, err := OpenBadgerStore(t.TempDir(), logging.Nop())
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	storeContract(t, s)
}

func TestBadgerStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadgerStore(dir, logging.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "articles:item:7", []byte("v"), time.Hour))
	require.NoError(t, s.Close())

	s, err = OpenBadgerStore(dir, logging.Nop())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "articles:item:7")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestMemoryStore_PerEntryTTL(t *testing.T) {
	s := NewMemoryStore(100, time.Hour)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(59 * time.Second)
	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, s.Size())
}

func TestMemoryStore_TTLCappedByClient(t *testing.T) {
	s := NewMemoryStore(100, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 24*time.Hour))

	now = now.Add(time.Minute)
	_, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_CopiesValue(t *testing.T) {
	s := NewMemoryStore(100, time.Hour)
	ctx := context.Background()

	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf, time.Hour))
	buf[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
