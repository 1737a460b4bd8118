package reminders

import "time"

// idGenerator hands out creation-timestamp ids (Unix milliseconds) that are
// strictly increasing: two ids requested in the same millisecond, or after the
// clock stepped back, still differ.
type idGenerator struct {
	now  func() time.Time
	last int64
}

func (g *idGenerator) next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// observe raises the floor so loaded ids are never handed out again.
func (g *idGenerator) observe(id int64) {
	if id > g.last {
		g.last = id
	}
}
