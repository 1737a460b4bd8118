// Package calendar lays out the infinite date picker: a contiguous window of
// day cells around today, with month dividers, that grows in batches when the
// viewport nears either edge.
package calendar

import (
	"time"

	"github.com/unowned-ai/medtrack/pkg/config"
	"github.com/unowned-ai/medtrack/pkg/datekey"
	"github.com/unowned-ai/medtrack/pkg/locale"
)

// Window is the inclusive range of day offsets from today that is laid out.
type Window struct {
	Min int
	Max int
}

func (w Window) Contains(offset int) bool {
	return offset >= w.Min && offset <= w.Max
}

// Days returns the number of day cells in the window.
func (w Window) Days() int {
	return w.Max - w.Min + 1
}

type Kind int

const (
	KindDay Kind = iota
	KindDivider
)

// Item is one cell of the strip: a day or a month divider.
type Item struct {
	Kind Kind
	// Offset is the day offset of the cell, or of the day a divider precedes.
	Offset int
	Date   time.Time
	Key    string

	Weekday string
	Number  int
	// Label is the capitalized month name on dividers.
	Label string

	Today    bool
	Selected bool
}

type Direction int

const (
	Past Direction = iota
	Future
)

func (d Direction) String() string {
	if d == Past {
		return "past"
	}
	return "future"
}

// Growth is the result of extending a window by one batch.
type Growth struct {
	Window    Window
	Direction Direction
	// Insert goes before the first item (Past) or after the last one (Future).
	Insert []Item
	// DropLeadingDivider is set when the old first cell is no longer the start
	// of the window and not the first of a month, so its divider goes away.
	DropLeadingDivider bool
	// ScrollDelta must be added to the scroll position so the cells that were
	// already visible stay where they were.
	ScrollDelta int
}

// Builder creates the items of a window relative to a fixed today.
type Builder struct {
	today time.Time
	loc   *locale.Locale
	cfg   config.Calendar
}

func NewBuilder(today time.Time, loc *locale.Locale, cfg config.Calendar) *Builder {
	return &Builder{today: datekey.StartOfDay(today), loc: loc, cfg: cfg}
}

func (b *Builder) Today() time.Time {
	return b.today
}

// Initial returns the configured startup window.
func (b *Builder) Initial() Window {
	return Window{Min: b.cfg.MinOffset, Max: b.cfg.MaxOffset}
}

// Offset returns the day offset of t from today.
func (b *Builder) Offset(t time.Time) int {
	return datekey.DaysBetween(b.today, t)
}

// Items lays out a whole window, starting with a leading divider.
func (b *Builder) Items(w Window) []Item {
	return b.span(w.Min, w.Max, true)
}

// span lays out the days from..to. A divider precedes every first of the
// month, and the first day too when leading is set.
func (b *Builder) span(from, to int, leading bool) []Item {
	items := make([]Item, 0, to-from+3)
	for off := from; off <= to; off++ {
		day := datekey.AddDays(b.today, off)
		if day.Day() == 1 || (leading && off == from) {
			items = append(items, b.divider(off, day))
		}
		items = append(items, b.day(off, day))
	}
	return items
}

func (b *Builder) day(off int, day time.Time) Item {
	return Item{
		Kind:    KindDay,
		Offset:  off,
		Date:    day,
		Key:     datekey.Format(day),
		Weekday: b.loc.WeekdayShort(day.Weekday()),
		Number:  day.Day(),
		Today:   off == 0,
	}
}

func (b *Builder) divider(off int, day time.Time) Item {
	return Item{
		Kind:   KindDivider,
		Offset: off,
		Date:   day,
		Key:    datekey.Format(day),
		Label:  b.loc.MonthName(day.Month()),
	}
}

// Width returns the rendered width of items.
func (b *Builder) Width(items []Item) int {
	w := 0
	for _, it := range items {
		w += b.itemWidth(it)
	}
	return w
}

func (b *Builder) itemWidth(it Item) int {
	if it.Kind == KindDivider {
		return b.cfg.DividerWidth
	}
	return b.cfg.CellWidth
}

// Grow extends w by one batch in dir. It does not touch any state: the caller
// inserts the items and applies the scroll correction.
func (b *Builder) Grow(w Window, dir Direction) Growth {
	return b.GrowBy(w, dir, 1)
}

// GrowBy extends w by n batches in dir at once. The result equals n
// successive Grow calls applied in order.
func (b *Builder) GrowBy(w Window, dir Direction, n int) Growth {
	batch := b.cfg.Batch * max(n, 1)

	if dir == Future {
		next := Window{Min: w.Min, Max: w.Max + batch}
		return Growth{
			Window:    next,
			Direction: Future,
			Insert:    b.span(w.Max+1, next.Max, false),
		}
	}

	next := Window{Min: w.Min - batch, Max: w.Max}
	insert := b.span(next.Min, w.Min-1, true)
	g := Growth{
		Window:      next,
		Direction:   Past,
		Insert:      insert,
		ScrollDelta: b.Width(insert),
	}
	if datekey.AddDays(b.today, w.Min).Day() != 1 {
		g.DropLeadingDivider = true
		g.ScrollDelta -= b.cfg.DividerWidth
	}
	return g
}
