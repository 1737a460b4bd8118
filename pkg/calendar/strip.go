package calendar

import (
	"time"

	"github.com/unowned-ai/medtrack/pkg/datekey"
)

// Strip is the scrollable state of the date picker: the laid out items, the
// scroll position and the selection. It is driven by the renderer's scroll
// events and is not safe for concurrent use.
type Strip struct {
	b      *Builder
	window Window
	items  []Item

	scroll   int
	viewport int

	// extending is set between an extension and the renderer's Settle call.
	// Scroll events arriving meanwhile do not extend again.
	extending bool

	selected int
}

// NewStrip lays out b's initial window with today selected.
func NewStrip(b *Builder, viewport int) *Strip {
	s := &Strip{b: b, viewport: viewport}
	s.window = b.Initial()
	s.items = b.Items(s.window)
	s.mark(0, true)
	return s
}

func (s *Strip) Window() Window      { return s.window }
func (s *Strip) Items() []Item       { return s.items }
func (s *Strip) Scroll() int         { return s.scroll }
func (s *Strip) Viewport() int       { return s.viewport }
func (s *Strip) Extending() bool     { return s.extending }
func (s *Strip) SelectedOffset() int { return s.selected }

// Today returns the day at offset 0.
func (s *Strip) Today() time.Time {
	return s.b.today
}

// SelectedDate returns the day the selected marker is on.
func (s *Strip) SelectedDate() time.Time {
	return datekey.AddDays(s.b.today, s.selected)
}

func (s *Strip) SetViewport(width int) {
	s.viewport = width
	s.scroll = s.clamp(s.scroll)
}

// ContentWidth is the width of every laid out item.
func (s *Strip) ContentWidth() int {
	return s.b.Width(s.items)
}

// ItemX returns the content position of the left edge of items[i].
func (s *Strip) ItemX(i int) int {
	return s.b.Width(s.items[:i])
}

// IndexOf returns the index of the day cell at offset, or -1.
func (s *Strip) IndexOf(offset int) int {
	for i, it := range s.items {
		if it.Kind == KindDay && it.Offset == offset {
			return i
		}
	}
	return -1
}

// Visible returns the index range [first, last) of the items fully inside
// the viewport.
func (s *Strip) Visible() (first, last int) {
	x := 0
	first = -1
	for i, it := range s.items {
		w := s.b.itemWidth(it)
		if x >= s.scroll && x+w <= s.scroll+s.viewport {
			if first < 0 {
				first = i
			}
			last = i + 1
		}
		x += w
	}
	if first < 0 {
		return 0, 0
	}
	return first, last
}

// OnScroll records the new scroll position and, when it is within the edge
// threshold of either end, extends the window by one batch. The returned
// Growth has already been applied; ok is false when nothing grew, including
// while a previous extension is still unsettled.
func (s *Strip) OnScroll(pos int) (g Growth, ok bool) {
	s.scroll = s.clamp(pos)
	if s.extending {
		return Growth{}, false
	}

	threshold := s.b.cfg.EdgeThreshold
	switch {
	case s.scroll <= threshold:
		g = s.b.Grow(s.window, Past)
	case s.scroll+s.viewport >= s.ContentWidth()-threshold:
		g = s.b.Grow(s.window, Future)
	default:
		return Growth{}, false
	}

	s.extending = true
	s.apply(g)
	return g, true
}

// Settle acknowledges that the renderer has applied the last extension.
func (s *Strip) Settle() {
	s.extending = false
}

// Select moves the selected marker to the day of t, growing the window until
// it contains that day, and returns the scroll position that centers it.
func (s *Strip) Select(t time.Time) (target int) {
	offset := s.b.Offset(t)
	batch := s.b.cfg.Batch
	if offset < s.window.Min {
		s.apply(s.b.GrowBy(s.window, Past, ceilDiv(s.window.Min-offset, batch)))
	}
	if offset > s.window.Max {
		s.apply(s.b.GrowBy(s.window, Future, ceilDiv(offset-s.window.Max, batch)))
	}

	s.mark(s.selected, false)
	s.mark(offset, true)
	s.selected = offset

	return s.CenterOn(offset)
}

// CenterOn returns the scroll position that centers the day at offset.
func (s *Strip) CenterOn(offset int) int {
	i := s.IndexOf(offset)
	if i < 0 {
		return s.scroll
	}
	return s.clamp(s.ItemX(i) + s.b.cfg.CellWidth/2 - s.viewport/2)
}

// ScrollTo moves the viewport without extending the window.
func (s *Strip) ScrollTo(pos int) {
	s.scroll = s.clamp(pos)
}

func (s *Strip) mark(offset int, on bool) {
	if i := s.IndexOf(offset); i >= 0 {
		s.items[i].Selected = on
	}
}

func (s *Strip) apply(g Growth) {
	s.window = g.Window
	if g.Direction == Future {
		s.items = append(s.items, g.Insert...)
		return
	}

	rest := s.items
	if g.DropLeadingDivider && len(rest) > 0 && rest[0].Kind == KindDivider {
		rest = rest[1:]
	}
	items := make([]Item, 0, len(g.Insert)+len(rest))
	items = append(items, g.Insert...)
	s.items = append(items, rest...)
	s.scroll += g.ScrollDelta
}

func (s *Strip) clamp(pos int) int {
	limit := s.ContentWidth() - s.viewport
	if pos > limit {
		pos = limit
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
