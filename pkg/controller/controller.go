// Package controller maps user intents onto the reminder store and re-renders
// the calendar and the day list after each of them.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/unowned-ai/medtrack/pkg/calendar"
	"github.com/unowned-ai/medtrack/pkg/datekey"
	"github.com/unowned-ai/medtrack/pkg/daylist"
	"github.com/unowned-ai/medtrack/pkg/locale"
	"github.com/unowned-ai/medtrack/pkg/reminders"
)

type Intent string

const (
	SelectDay        Intent = "select-day"
	AddMedication    Intent = "add-medication"
	Take             Intent = "take"
	DeleteMedication Intent = "delete-medication"
	DeleteEvent      Intent = "delete-event"
	AddEvent         Intent = "add-event"
)

var (
	ErrUnknownIntent = errors.New("unknown intent")
	// ErrDeclined is returned when a delete was not confirmed. Nothing changed.
	ErrDeclined = errors.New("deletion not confirmed")
	// ErrDateOutOfRange rejects days further than MaxDayDistance from today.
	ErrDateOutOfRange = errors.New("date out of range")
)

// MaxDayDistance bounds how far from today a day can be selected, in days.
const MaxDayDistance = 100 * 366

// Request carries the arguments of an intent. Date, when set, selects that
// day before the intent runs; SelectDay requires it.
type Request struct {
	Intent Intent
	Date   time.Time
	ID     int64
	Name   string
	Time   string
}

// Confirmer answers the yes/no question asked before every delete.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Notifier shows a message that blocks until the user has seen it.
type Notifier interface {
	Notify(message string)
}

type NotifyFunc func(message string)

func (f NotifyFunc) Notify(message string) { f(message) }

// Renderer draws a frame of the calendar and the selected day.
type Renderer interface {
	Render(Frame)
}

type RenderFunc func(Frame)

func (f RenderFunc) Render(fr Frame) { f(fr) }

// Frame is everything a renderer needs to draw one state.
type Frame struct {
	Selected time.Time
	Day      daylist.View
	Strip    *calendar.Strip
	// ScrollTarget is the strip position to move to, animated when Smooth.
	ScrollTarget int
	Smooth       bool
}

type handler func(ctx context.Context, req Request) error

type Controller struct {
	store *reminders.Store
	strip *calendar.Strip
	loc   *locale.Locale

	confirm Confirmer
	notify  Notifier
	render  Renderer
	log     zerolog.Logger

	handlers map[Intent]handler
}

type Option func(*Controller)

func WithConfirmer(c Confirmer) Option { return func(ctl *Controller) { ctl.confirm = c } }
func WithNotifier(n Notifier) Option   { return func(ctl *Controller) { ctl.notify = n } }
func WithRenderer(r Renderer) Option   { return func(ctl *Controller) { ctl.render = r } }
func WithLogger(l zerolog.Logger) Option {
	return func(ctl *Controller) { ctl.log = l }
}

// New wires a controller. Without a Confirmer every delete is declined.
func New(store *reminders.Store, strip *calendar.Strip, loc *locale.Locale, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		strip:   strip,
		loc:     loc,
		confirm: ConfirmFunc(func(string) bool { return false }),
		notify:  NotifyFunc(func(string) {}),
		render:  RenderFunc(func(Frame) {}),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.handlers = map[Intent]handler{
		SelectDay:        c.selectDay,
		AddMedication:    c.addMedication,
		Take:             c.take,
		DeleteMedication: c.deleteMedication,
		DeleteEvent:      c.deleteEvent,
		AddEvent:         c.addEvent,
	}
	return c
}

func (c *Controller) Store() *reminders.Store { return c.store }
func (c *Controller) Strip() *calendar.Strip  { return c.strip }
func (c *Controller) Locale() *locale.Locale  { return c.loc }

// Dispatch runs one intent. Failures are shown through the Notifier and also
// returned; a declined confirmation returns ErrDeclined without a notice.
func (c *Controller) Dispatch(ctx context.Context, req Request) error {
	h, ok := c.handlers[req.Intent]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownIntent, req.Intent)
	}
	c.log.Debug().Str("intent", string(req.Intent)).Int64("id", req.ID).Msg("dispatch")

	if !req.Date.IsZero() {
		if d := datekey.DaysBetween(c.store.Today(), req.Date); d > MaxDayDistance || d < -MaxDayDistance {
			return c.fail(fmt.Errorf("%w: %s", ErrDateOutOfRange, datekey.Format(req.Date)))
		}
	}
	if req.Intent != SelectDay && !req.Date.IsZero() {
		c.selectDate(req.Date)
	}
	return h(ctx, req)
}

// Day returns the list of the selected day.
func (c *Controller) Day() daylist.View {
	return daylist.Build(c.store, c.store.SelectedDate(), c.store.Today(), c.loc)
}

// SetStrip replaces the calendar strip, e.g. one built for a new today, and
// renders it with the selected day marked and centered.
func (c *Controller) SetStrip(strip *calendar.Strip) {
	c.strip = strip
	strip.Select(c.store.SelectedDate())
	strip.ScrollTo(strip.CenterOn(strip.SelectedOffset()))
	c.Refresh()
}

// Refresh renders the current state, centered on the selected day.
func (c *Controller) Refresh() {
	c.render.Render(c.frame(c.strip.CenterOn(c.strip.SelectedOffset()), false))
}

func (c *Controller) frame(target int, smooth bool) Frame {
	return Frame{
		Selected:     c.store.SelectedDate(),
		Day:          c.Day(),
		Strip:        c.strip,
		ScrollTarget: target,
		Smooth:       smooth,
	}
}

func (c *Controller) selectDate(t time.Time) int {
	c.store.Select(t)
	return c.strip.Select(t)
}

func (c *Controller) selectDay(_ context.Context, req Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%s: date is required", SelectDay)
	}
	target := c.selectDate(req.Date)
	c.render.Render(c.frame(target, true))
	return nil
}

func (c *Controller) addMedication(ctx context.Context, req Request) error {
	_, err := c.store.AddMedication(ctx, req.Name, req.Time)
	return c.mutated(err, c.loc.Labels.MedicationMissing)
}

func (c *Controller) take(ctx context.Context, req Request) error {
	_, _, err := c.store.TakeMedication(ctx, req.ID)
	return c.mutated(err, c.loc.Labels.FutureDay)
}

func (c *Controller) addEvent(ctx context.Context, req Request) error {
	_, err := c.store.AddEvent(ctx, req.Name, req.Time)
	msg := c.loc.Labels.EventNameMissing
	if errors.Is(err, reminders.ErrInvalidTime) {
		msg = c.loc.Labels.MedicationMissing
	}
	return c.mutated(err, msg)
}

func (c *Controller) deleteMedication(ctx context.Context, req Request) error {
	med, ok := c.store.Medication(req.ID)
	if !ok {
		return c.fail(fmt.Errorf("%w: %d", reminders.ErrMedicationNotFound, req.ID))
	}
	if !c.confirmDelete(med.Name) {
		return ErrDeclined
	}
	return c.mutated(c.store.DeleteMedication(ctx, req.ID), "")
}

func (c *Controller) deleteEvent(ctx context.Context, req Request) error {
	var name string
	found := false
	for _, e := range c.store.EventsFor(c.store.SelectedKey()) {
		if e.ID == req.ID {
			name, found = e.Name, true
			break
		}
	}
	if !found {
		return c.fail(fmt.Errorf("%w: %d on %s", reminders.ErrEventNotFound, req.ID, c.store.SelectedKey()))
	}
	if !c.confirmDelete(name) {
		return ErrDeclined
	}
	return c.mutated(c.store.DeleteEvent(ctx, req.ID), "")
}

func (c *Controller) confirmDelete(name string) bool {
	ok := c.confirm.Confirm(fmt.Sprintf("%s (%s)", c.loc.Labels.ConfirmDelete, name))
	if !ok {
		c.log.Debug().Str("item", name).Msg("delete declined")
	}
	return ok
}

// mutated finishes a store call. Validation errors are notified with
// validationMsg and change nothing. Everything else re-renders, including a
// failed save whose change is still held in memory.
func (c *Controller) mutated(err error, validationMsg string) error {
	if err != nil && reminders.IsValidation(err) {
		c.notify.Notify(validationMsg)
		return err
	}
	if err != nil && !errors.Is(err, reminders.ErrPersist) {
		return c.fail(err)
	}

	if err != nil {
		c.log.Warn().Err(err).Msg("change kept in memory only")
		c.notify.Notify(c.loc.SaveFailed(err))
	}
	c.render.Render(c.frame(c.strip.Scroll(), false))
	return err
}

func (c *Controller) fail(err error) error {
	c.notify.Notify(err.Error())
	return err
}
