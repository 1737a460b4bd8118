package reminders

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unowned-ai/medtrack/pkg/db"
)

func TestGateway_LoadEmptyStore(t *testing.T) {
	gw := NewGateway(db.NewMemoryKV(), zerolog.Nop())

	c, err := gw.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, emptyCollections(), c)
}

func TestGateway_LoadUnparsableFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	blobs := db.NewMemoryKV()
	require.NoError(t, blobs.Set(ctx, KeyMedications, `[{"id":1,"name":"Aspirina","time":"09:00"}]`))
	require.NoError(t, blobs.Set(ctx, KeyTakenRecords, `{not json`))
	require.NoError(t, blobs.Set(ctx, KeyEvents, `null`))

	c, err := NewGateway(blobs, zerolog.Nop()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Medication{{ID: 1, Name: "Aspirina", Time: "09:00"}}, c.Medications)
	assert.Empty(t, c.TakenRecords)
	assert.NotNil(t, c.TakenRecords)
	assert.NotNil(t, c.Events)
}

func TestGateway_WireFormat(t *testing.T) {
	ctx := context.Background()
	blobs := db.NewMemoryKV()
	gw := NewGateway(blobs, zerolog.Nop())

	require.NoError(t, gw.Save(ctx, Collections{
		Medications:  []Medication{{ID: 7, Name: "Aspirina", Time: "09:00"}},
		TakenRecords: map[string][]TakenRecord{"2026-10-19": {{MedicationID: 7, TakenAt: "09:05"}}},
		Events:       map[string][]Event{},
	}))

	raw, ok, err := blobs.Get(ctx, KeyTakenRecords)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"2026-10-19":[{"id":7,"takenAt":"09:05"}]}`, raw)

	raw, _, _ = blobs.Get(ctx, KeyEvents)
	assert.JSONEq(t, `{}`, raw)
}

type failingBlobs struct{ err error }

func (f failingBlobs) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingBlobs) Set(context.Context, string, string) error        { return f.err }

func TestGateway_LoadStoreFailure(t *testing.T) {
	boom := errors.New("disk gone")
	_, err := NewGateway(failingBlobs{err: boom}, zerolog.Nop()).Load(context.Background())
	assert.ErrorIs(t, err, boom)
}
