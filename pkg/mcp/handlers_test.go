package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unowned-ai/medtrack/pkg/config"
	"github.com/unowned-ai/medtrack/pkg/daylist"
	"github.com/unowned-ai/medtrack/pkg/db"
	"github.com/unowned-ai/medtrack/pkg/locale"
	"github.com/unowned-ai/medtrack/pkg/reminders"
)

var now = time.Date(2026, time.October, 19, 8, 30, 0, 0, time.Local)

func setupServer(t *testing.T) *MedtrackMCPServer {
	t.Helper()
	store, err := reminders.Open(context.Background(),
		reminders.NewGateway(db.NewMemoryKV(), zerolog.Nop()),
		reminders.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	cal := config.Calendar{MinOffset: -15, MaxOffset: 30, Batch: 15, EdgeThreshold: 100, CellWidth: 60, DividerWidth: 24}
	return NewMedtrackMCPServer(store, locale.MustLookup("en"), cal, zerolog.Nop())
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var request mcp.CallToolRequest
	request.Params.Arguments = args

	res, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func decodeDay(t *testing.T, raw string) daylist.View {
	t.Helper()
	var v daylist.View
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestPing(t *testing.T) {
	out, isErr := call(t, pingHandler, nil)
	assert.False(t, isErr)
	assert.Equal(t, "pong_medtrack", out)
}

func TestAddAndTakeMedication(t *testing.T) {
	s := setupServer(t)

	out, isErr := call(t, s.handleAddMedication, map[string]any{"name": "Aspirin", "time": "09:00"})
	require.False(t, isErr, out)
	day := decodeDay(t, out)
	require.Len(t, day.Entries, 1)
	assert.Equal(t, daylist.ActionTake, day.Entries[0].Action)

	out, isErr = call(t, s.handleTakeMedication, map[string]any{"id": float64(day.Entries[0].ID)})
	require.False(t, isErr, out)
	day = decodeDay(t, out)
	assert.Equal(t, "Taken at 08:30", day.Entries[0].Label)

	out, isErr = call(t, s.handleListMedications, nil)
	require.False(t, isErr)
	var meds []reminders.Medication
	require.NoError(t, json.Unmarshal([]byte(out), &meds))
	assert.Len(t, meds, 1)
}

func TestAddMedication_ValidationMessage(t *testing.T) {
	s := setupServer(t)

	out, isErr := call(t, s.handleAddMedication, map[string]any{"name": "Aspirin"})
	assert.True(t, isErr)
	assert.Contains(t, out, "Please fill in both name and time.")
}

func TestTakeMedication_FutureDate(t *testing.T) {
	s := setupServer(t)
	_, isErr := call(t, s.handleAddMedication, map[string]any{"name": "Aspirin", "time": "09:00"})
	require.False(t, isErr)
	id := s.store.Medications()[0].ID

	out, isErr := call(t, s.handleTakeMedication, map[string]any{"id": float64(id), "date": "2026-10-25"})
	assert.True(t, isErr)
	assert.Contains(t, out, "future day")
	assert.Empty(t, s.store.Snapshot().TakenRecords)
}

func TestDeleteMedication_RequiresConfirm(t *testing.T) {
	s := setupServer(t)
	_, isErr := call(t, s.handleAddMedication, map[string]any{"name": "Aspirin", "time": "09:00"})
	require.False(t, isErr)
	id := s.store.Medications()[0].ID

	out, isErr := call(t, s.handleDeleteMedication, map[string]any{"id": float64(id)})
	assert.True(t, isErr)
	assert.Contains(t, out, "confirm")
	assert.Len(t, s.store.Medications(), 1)

	_, isErr = call(t, s.handleDeleteMedication, map[string]any{"id": float64(id), "confirm": true})
	assert.False(t, isErr)
	assert.Empty(t, s.store.Medications())
}

func TestEvents(t *testing.T) {
	s := setupServer(t)

	out, isErr := call(t, s.handleAddEvent, map[string]any{"name": "Checkup", "date": "2026-10-20"})
	require.False(t, isErr, out)
	day := decodeDay(t, out)
	assert.Equal(t, "2026-10-20", day.DateKey)
	require.Len(t, day.Entries, 1)
	assert.Equal(t, "08:30", day.Entries[0].Time)

	// Ids are accepted as strings too.
	id := day.Entries[0].ID
	out, isErr = call(t, s.handleDeleteEvent, map[string]any{"id": "0", "date": "2026-10-20", "confirm": true})
	assert.True(t, isErr)
	assert.Contains(t, out, "event not found")

	out, isErr = call(t, s.handleGetDay, map[string]any{"date": "2026-10-20"})
	require.False(t, isErr)
	assert.Len(t, decodeDay(t, out).Entries, 1)

	_, isErr = call(t, s.handleDeleteEvent, map[string]any{"id": float64(id), "date": "2026-10-20", "confirm": true})
	assert.False(t, isErr)
	assert.Empty(t, s.store.EventsFor("2026-10-20"))
}

func TestGetDay_InvalidDate(t *testing.T) {
	s := setupServer(t)

	out, isErr := call(t, s.handleGetDay, map[string]any{"date": "19/10/2026"})
	assert.True(t, isErr)
	assert.Contains(t, out, "invalid date key")
}

func TestGetDay_Empty(t *testing.T) {
	s := setupServer(t)

	out, isErr := call(t, s.handleGetDay, nil)
	require.False(t, isErr)
	day := decodeDay(t, out)
	assert.Equal(t, "2026-10-19", day.DateKey)
	assert.True(t, day.IsEmpty())
	assert.Equal(t, "No medications or events for this day.", day.Empty)
}

func TestTakeMedication_FractionalID(t *testing.T) {
	s := setupServer(t)
	_, isErr := call(t, s.handleAddMedication, map[string]any{"name": "Aspirin", "time": "09:00"})
	require.False(t, isErr)
	id := s.store.Medications()[0].ID

	out, isErr := call(t, s.handleTakeMedication, map[string]any{"id": float64(id) + 0.5})
	assert.True(t, isErr)
	assert.Contains(t, out, "integer id")
	assert.Empty(t, s.store.Snapshot().TakenRecords)
}

func TestGetDay_FarDateRejected(t *testing.T) {
	s := setupServer(t)

	out, isErr := call(t, s.handleGetDay, map[string]any{"date": "0001-01-01"})
	assert.True(t, isErr)
	assert.Contains(t, out, "date out of range")
}
