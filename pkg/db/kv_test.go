package db

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupKV(t *testing.T) *KV {
	t.Helper()
	db := openMemoryDB(t)
	require.NoError(t, UpgradeDB(db, ":memory:", TargetSchemaVersion, zerolog.Nop()))
	return NewKV(db)
}

func TestKV_GetMissingKey(t *testing.T) {
	kv := setupKV(t)

	v, ok, err := kv.Get(context.Background(), "medications")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestKV_SetOverwrites(t *testing.T) {
	kv := setupKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "events", "{}"))
	require.NoError(t, kv.Set(ctx, "events", `{"2026-10-19":[]}`))

	v, ok, err := kv.Get(ctx, "events")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"2026-10-19":[]}`, v)
}

func TestKV_SetAll(t *testing.T) {
	kv := setupKV(t)
	ctx := context.Background()

	require.NoError(t, kv.SetAll(ctx, map[string]string{
		"medications":  "[]",
		"takenRecords": "{}",
		"events":       "{}",
	}))

	keys, err := kv.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"events", "medications", "takenRecords"}, keys)
}

func TestMemoryKV_FailWrites(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "medications", "[]"))

	boom := errors.New("quota exceeded")
	kv.FailWrites = boom
	assert.ErrorIs(t, kv.Set(ctx, "medications", `[{"id":1}]`), boom)

	v, _, err := kv.Get(ctx, "medications")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
