package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unowned-ai/medtrack/pkg/config"
	"github.com/unowned-ai/medtrack/pkg/datekey"
	"github.com/unowned-ai/medtrack/pkg/daylist"
	"github.com/unowned-ai/medtrack/pkg/db"
	"github.com/unowned-ai/medtrack/pkg/locale"
	"github.com/unowned-ai/medtrack/pkg/reminders"
)

var now = time.Date(2026, time.October, 19, 8, 30, 0, 0, time.Local)

var testCalendar = config.Calendar{
	MinOffset:     -15,
	MaxOffset:     30,
	Batch:         15,
	EdgeThreshold: 100,
	CellWidth:     60,
	DividerWidth:  24,
}

// newModel returns a model that has not received its window size yet.
func newModel(t *testing.T, clock func() time.Time) (model, *reminders.Store) {
	t.Helper()
	store, err := reminders.Open(context.Background(),
		reminders.NewGateway(db.NewMemoryKV(), zerolog.Nop()), reminders.WithClock(clock))
	require.NoError(t, err)

	m := initModel(store, locale.MustLookup("it"), testCalendar, ":memory:", zerolog.Nop())
	m.now = clock
	return m, store
}

func setupModel(t *testing.T) (model, *reminders.Store) {
	t.Helper()
	m, store := newModel(t, func() time.Time { return now })
	return send(m, tea.WindowSizeMsg{Width: 120, Height: 40}), store
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestInitModel_ShowsToday(t *testing.T) {
	m, _ := setupModel(t)

	assert.Equal(t, "2026-10-19", datekey.Format(m.state.frame.Selected))
	assert.True(t, m.state.frame.Day.IsEmpty())
	assert.Equal(t, 116, m.ctl.Strip().Viewport())

	view := m.View()
	assert.Contains(t, view, "19 Ottobre 2026")
	assert.Contains(t, view, "Nessuna medicina o evento per questo giorno.")
}

func TestAddMedicationForm(t *testing.T) {
	m, store := setupModel(t)

	m = send(m, key("m"))
	require.Equal(t, modeAddMedication, m.mode)

	m = send(m, key("Aspirina"), key("enter"), key("9:00"), key("enter"))
	assert.Equal(t, modeBrowse, m.mode)

	meds := store.Medications()
	require.Len(t, meds, 1)
	assert.Equal(t, "Aspirina", meds[0].Name)
	assert.Equal(t, "09:00", meds[0].Time)

	require.Len(t, m.entries(), 1)
	assert.Equal(t, daylist.ActionTake, m.entries()[0].Action)
}

func TestAddMedicationForm_MissingTimeKeepsFormOpen(t *testing.T) {
	m, store := setupModel(t)

	m = send(m, key("m"), key("Aspirina"), key("enter"), key("enter"))
	assert.Equal(t, modeAddMedication, m.mode)
	assert.Equal(t, "Per favore, compila nome e orario.", m.formError)
	assert.Empty(t, store.Medications())

	m = send(m, key("esc"))
	assert.Equal(t, modeBrowse, m.mode)
	assert.Empty(t, m.formError)
}

func TestAddEventForm_PrefillsCurrentTime(t *testing.T) {
	m, store := setupModel(t)

	m = send(m, key("e"))
	require.Equal(t, modeAddEvent, m.mode)
	assert.Equal(t, "08:30", m.timeInput.Value())

	m = send(m, key("Visita"), key("enter"), key("enter"))
	assert.Equal(t, modeBrowse, m.mode)

	events := store.EventsFor("2026-10-19")
	require.Len(t, events, 1)
	assert.Equal(t, "Visita", events[0].Name)
	assert.Equal(t, "08:30", events[0].Time)
}

func TestTakeCurrent(t *testing.T) {
	m, store := setupModel(t)
	med, err := store.AddMedication(context.Background(), "Aspirina", "09:00")
	require.NoError(t, err)
	m.ctl.Refresh()

	m = send(m, key("t"))
	taken := store.TakenFor("2026-10-19")
	require.Len(t, taken, 1)
	assert.Equal(t, med.ID, taken[0].MedicationID)
	assert.Equal(t, "Presa alle 08:30", m.entries()[0].Label)
}

func TestTakeCurrent_FutureDay(t *testing.T) {
	m, store := setupModel(t)
	_, err := store.AddMedication(context.Background(), "Aspirina", "09:00")
	require.NoError(t, err)

	m = send(m, key("l"))
	assert.Equal(t, "2026-10-20", datekey.Format(m.state.frame.Selected))

	m = send(m, key("t"))
	assert.Empty(t, store.TakenFor("2026-10-20"))
	assert.Equal(t, "Non puoi segnare come presa una medicina in un giorno futuro.", m.state.notice)

	// Any key clears the notice; T returns to today.
	m = send(m, key("T"))
	assert.Empty(t, m.state.notice)
	assert.Equal(t, "2026-10-19", datekey.Format(m.state.frame.Selected))
}

func TestDeleteCurrent(t *testing.T) {
	m, store := setupModel(t)
	_, err := store.AddMedication(context.Background(), "Aspirina", "09:00")
	require.NoError(t, err)
	m.ctl.Refresh()

	// Escape cancels; the dialog defaults to No.
	m = send(m, key("d"))
	require.Equal(t, modeConfirmDelete, m.mode)
	m = send(m, key("esc"))
	assert.Equal(t, modeBrowse, m.mode)
	assert.Len(t, store.Medications(), 1)

	m = send(m, key("d"), key("enter"))
	assert.Len(t, store.Medications(), 1)

	m = send(m, key("d"), key("k"), key("enter"))
	assert.Empty(t, store.Medications())
	assert.True(t, m.state.frame.Day.IsEmpty())
	assert.False(t, m.state.answer)
}

func TestSelectDay_AnimatesStrip(t *testing.T) {
	m, _ := setupModel(t)
	start := m.ctl.Strip().Scroll()

	m = send(m, key("l"))
	require.True(t, m.animating)
	assert.Equal(t, start+cellColumns, m.scrollTarget)

	for i := 0; i < 50 && m.animating; i++ {
		m = send(m, now)
	}
	assert.False(t, m.animating)
	assert.Equal(t, m.scrollTarget, m.ctl.Strip().Scroll())
}

func TestView_NarrowTerminals(t *testing.T) {
	tests := []struct {
		name  string
		width int
	}{
		{name: "before first resize", width: 0},
		{name: "30 columns", width: 30},
		{name: "60 columns", width: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store := newModel(t, func() time.Time { return now })
			ctx := context.Background()
			_, err := store.AddMedication(ctx, "Acido acetilsalicilico a basso dosaggio", "07:00")
			require.NoError(t, err)
			med, err := store.AddMedication(ctx, "Aspirina", "09:00")
			require.NoError(t, err)
			_, _, err = store.TakeMedication(ctx, med.ID)
			require.NoError(t, err)
			_, err = store.AddEvent(ctx, "Visita dal medico di base", "10:00")
			require.NoError(t, err)
			m.ctl.Refresh()

			if tt.width > 0 {
				m = send(m, tea.WindowSizeMsg{Width: tt.width, Height: 20})
			}
			require.Len(t, m.entries(), 3)

			for cursor := range m.entries() {
				m.entryCursor = cursor
				assert.NotPanics(t, func() { _ = m.View() })
			}
			// Advance the marquee past the name lengths.
			m.marqueeOffset = 57
			assert.NotPanics(t, func() { _ = m.View() })
		})
	}
}

func TestMarqueeText_NonPositiveWidth(t *testing.T) {
	m, _ := setupModel(t)
	assert.Equal(t, "", m.marqueeText("Aspirina", 0))
	assert.Equal(t, "", m.marqueeText("Aspirina", -22))
	assert.Equal(t, "Aspi", m.marqueeText("Aspirina", 4))
}

func TestTick_RebuildsStripAfterMidnight(t *testing.T) {
	current := now
	m, store := newModel(t, func() time.Time { return current })
	_, err := store.AddMedication(context.Background(), "Aspirina", "09:00")
	require.NoError(t, err)
	m.ctl.Refresh()
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m = send(m, now)
	assert.Equal(t, "2026-10-19", datekey.Format(m.ctl.Strip().Today()))

	current = now.Add(16 * time.Hour)
	m = send(m, current)

	strip := m.ctl.Strip()
	assert.Equal(t, "2026-10-20", datekey.Format(strip.Today()))
	assert.Equal(t, 116, strip.Viewport())
	assert.Equal(t, -1, strip.SelectedOffset())

	var todayKeys []string
	for _, it := range strip.Items() {
		if it.Today {
			todayKeys = append(todayKeys, it.Key)
		}
	}
	assert.Equal(t, []string{"2026-10-20"}, todayKeys)

	// The selected day is now in the past.
	assert.Equal(t, "2026-10-19", m.state.frame.Day.DateKey)
	assert.Equal(t, daylist.ActionNotTakenLabel, m.entries()[0].Action)
}
