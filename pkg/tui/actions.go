package tui

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/unowned-ai/medtrack/pkg/calendar"
	"github.com/unowned-ai/medtrack/pkg/config"
	"github.com/unowned-ai/medtrack/pkg/controller"
	"github.com/unowned-ai/medtrack/pkg/datekey"
	"github.com/unowned-ai/medtrack/pkg/daylist"
	"github.com/unowned-ai/medtrack/pkg/locale"
	"github.com/unowned-ai/medtrack/pkg/reminders"
)

// Terminal geometry of the date strip, in columns.
const (
	cellColumns    = 7  // "lun 19 "
	dividerColumns = 12 // "│Ottobre    "
)

// sharedState is written by the controller's collaborators and read by the
// model. The model is copied on every update, so it only holds a pointer.
type sharedState struct {
	frame  controller.Frame
	notice string
	// answer is what the confirm dialog chose; the Confirmer reports it.
	answer bool
}

// terminalCalendar sets the strip geometry to terminal columns.
func terminalCalendar(cal config.Calendar) config.Calendar {
	cal.CellWidth = cellColumns
	cal.DividerWidth = dividerColumns
	cal.EdgeThreshold = 2 * cellColumns
	return cal
}

// newController wires a controller whose renderer, notifier and confirmer
// all go through st. cal must already be in terminal columns.
func newController(store *reminders.Store, loc *locale.Locale, cal config.Calendar, st *sharedState, log zerolog.Logger) *controller.Controller {
	strip := calendar.NewStrip(calendar.NewBuilder(store.Today(), loc, cal), 0)
	return controller.New(store, strip, loc,
		controller.WithRenderer(controller.RenderFunc(func(f controller.Frame) { st.frame = f })),
		controller.WithNotifier(controller.NotifyFunc(func(msg string) { st.notice = msg })),
		controller.WithConfirmer(controller.ConfirmFunc(func(string) bool { return st.answer })),
		controller.WithLogger(log),
	)
}

// The store belongs to the update loop, so intents run synchronously inside
// Update rather than as tea.Cmds on other goroutines.
func (m *model) dispatch(req controller.Request) error {
	err := m.ctl.Dispatch(context.Background(), req)
	if m.state.frame.Smooth {
		m.state.frame.Smooth = false
		m.scrollTarget = m.state.frame.ScrollTarget
		m.animating = true
	}
	if n := len(m.entries()); m.entryCursor >= n {
		m.entryCursor = max(n-1, 0)
	}
	return err
}

func (m *model) selectDay(day time.Time) {
	m.entryCursor = 0
	m.dispatch(controller.Request{Intent: controller.SelectDay, Date: day})
}

func (m *model) shiftDay(n int) {
	m.selectDay(datekey.AddDays(m.state.frame.Selected, n))
}

func (m model) entries() []daylist.Entry {
	return m.state.frame.Day.Entries
}

func (m model) currentEntry() (daylist.Entry, bool) {
	entries := m.entries()
	if m.entryCursor < 0 || m.entryCursor >= len(entries) {
		return daylist.Entry{}, false
	}
	return entries[m.entryCursor], true
}

func (m *model) takeCurrent() {
	e, ok := m.currentEntry()
	if !ok || e.Kind != daylist.KindMedication || e.Action != daylist.ActionTake {
		return
	}
	m.dispatch(controller.Request{Intent: controller.Take, ID: e.ID})
}

// deleteCurrent runs the delete intent with the dialog's answer.
func (m *model) deleteCurrent(confirmed bool) {
	e, ok := m.currentEntry()
	if !ok {
		return
	}
	intent := controller.DeleteEvent
	if e.Kind == daylist.KindMedication {
		intent = controller.DeleteMedication
	}
	m.state.answer = confirmed
	m.dispatch(controller.Request{Intent: intent, ID: e.ID})
	m.state.answer = false
}

// rollDay rebuilds the strip around the new today once the date changes
// while the program is open.
func (m *model) rollDay() {
	old := m.ctl.Strip()
	today := m.ctl.Store().Today()
	if datekey.Compare(today, old.Today()) == 0 {
		return
	}
	m.animating = false
	m.ctl.SetStrip(calendar.NewStrip(calendar.NewBuilder(today, m.loc, m.cal), old.Viewport()))
}

// scrollBy moves the strip without changing the selection.
func (m *model) scrollBy(delta int) {
	m.animating = false
	m.ctl.Strip().OnScroll(m.ctl.Strip().Scroll() + delta)
}

// stepScroll moves the strip one animation step toward the target. A past
// extension shifts every position, the target included.
func (m *model) stepScroll() {
	strip := m.ctl.Strip()
	strip.Settle()
	if !m.animating {
		return
	}

	cur := strip.Scroll()
	diff := m.scrollTarget - cur
	if diff == 0 {
		m.animating = false
		return
	}
	step := diff / 3
	if step == 0 {
		step = 1
		if diff < 0 {
			step = -1
		}
	}

	g, grew := strip.OnScroll(cur + step)
	if grew && g.Direction == calendar.Past {
		m.scrollTarget += g.ScrollDelta
	}
	if !grew && strip.Scroll() == cur {
		// Clamped at an end of the strip.
		m.animating = false
	}
}
