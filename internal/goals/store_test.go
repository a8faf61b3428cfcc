package goals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"goalplan-backend/internal/apperr"
	"goalplan-backend/internal/storage"
)

type brokenKV struct {
	storage.KV
	getErr error
	setErr error
}

func (b brokenKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if b.getErr != nil {
		return nil, false, b.getErr
	}
	return b.KV.Get(ctx, key)
}

func (b brokenKV) Set(ctx context.Context, key string, value []byte) error {
	if b.setErr != nil {
		return b.setErr
	}
	return b.KV.Set(ctx, key, value)
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestStore_AddRejectsBlankText(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s := NewStore(kv)
	s.Load(ctx)

	_, err := s.Add(ctx, "Run 5k", "")
	require.NoError(t, err)
	before := s.List()

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := s.Add(ctx, text, "something")
		require.Error(t, err)

		var ve *apperr.ValidationError
		assert.True(t, errors.As(err, &ve))
		assert.True(t, IsValidation(err))
		assert.Equal(t, before, s.List())
	}
}

func TestStore_AddPrependsWithUniqueID(t *testing.T) {
	ctx := context.Background()
	s := NewStore(storage.NewMemoryKV(), WithClock(fixedClock(1_000)))
	s.Load(ctx)

	first, err := s.Add(ctx, "  Run 5k ", " ran 1km ")
	require.NoError(t, err)
	assert.Equal(t, "Run 5k", first.Text)
	assert.Equal(t, "ran 1km", first.Progress)
	assert.Equal(t, int64(1_000), first.ID)

	// same millisecond: id must still be fresh
	second, err := s.Add(ctx, "Read 12 books", "")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0])
	assert.Equal(t, first, list[1])
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s := NewStore(kv)
	s.Load(ctx)

	a, err := s.Add(ctx, "a", "")
	require.NoError(t, err)
	b, err := s.Add(ctx, "b", "")
	require.NoError(t, err)
	c, err := s.Add(ctx, "c", "")
	require.NoError(t, err)

	removed, err := s.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []Goal{c, a}, s.List())

	removed, err = s.Delete(ctx, 424242)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, []Goal{c, a}, s.List())

	reloaded := NewStore(kv)
	assert.Equal(t, []Goal{c, a}, reloaded.Load(ctx))
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s := NewStore(kv)
	s.Load(ctx)

	for _, text := range []string{"one", "two", "three", "four", "five"} {
		_, err := s.Add(ctx, text, "p-"+text)
		require.NoError(t, err)
	}

	reloaded := NewStore(kv).Load(ctx)
	assert.Equal(t, s.List(), reloaded)
	assert.Equal(t, "five", reloaded[0].Text)
}

func TestStore_LoadMalformedSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)

	for _, raw := range []string{"{not json", `{"id":1}`, `"goals"`} {
		kv := storage.NewMemoryKV()
		require.NoError(t, kv.Set(ctx, SnapshotKey, []byte(raw)))

		s := NewStore(kv, WithLogger(zap.New(core)))
		assert.Empty(t, s.Load(ctx), raw)
	}
	assert.Equal(t, 3, logs.FilterMessage("goal snapshot malformed, starting empty").Len())
}

func TestStore_LoadReadErrorStartsEmpty(t *testing.T) {
	s := NewStore(brokenKV{KV: storage.NewMemoryKV(), getErr: errors.New("disk gone")})
	assert.Empty(t, s.Load(context.Background()))
}

func TestStore_WriteFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s := NewStore(kv)
	s.Load(ctx)
	g, err := s.Add(ctx, "keep me", "")
	require.NoError(t, err)

	s.kv = brokenKV{KV: kv, setErr: errors.New("read-only")}

	_, err = s.Add(ctx, "lost", "")
	var pe *apperr.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, []Goal{g}, s.List())

	_, err = s.Delete(ctx, g.ID)
	require.Error(t, err)
	assert.Equal(t, []Goal{g}, s.List())
}

func TestStore_EmptyListPersistsAsArray(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s := NewStore(kv)
	s.Load(ctx)

	g, err := s.Add(ctx, "only", "")
	require.NoError(t, err)
	_, err = s.Delete(ctx, g.ID)
	require.NoError(t, err)

	raw, ok, err := kv.Get(ctx, SnapshotKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", string(raw))
}
