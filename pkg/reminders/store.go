// Package reminders is the in-memory model of medications, taken-records and
// events, mirrored to a blob store after every change.
//
// A Store is owned by a single goroutine and is not safe for concurrent use.
package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/unowned-ai/medtrack/pkg/datekey"
)

type Store struct {
	gw  *Gateway
	now func() time.Time
	ids idGenerator
	log zerolog.Logger

	data     Collections
	selected time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, for tests and for replaying a fixed day.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// Open loads the collections through gw and selects today.
func Open(ctx context.Context, gw *Gateway, opts ...Option) (*Store, error) {
	s := &Store{
		gw:  gw,
		now: time.Now,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids.now = s.now

	data, err := gw.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.data = data
	for _, m := range data.Medications {
		s.ids.observe(m.ID)
	}
	for _, evts := range data.Events {
		for _, e := range evts {
			s.ids.observe(e.ID)
		}
	}

	s.selected = datekey.StartOfDay(s.now())
	return s, nil
}

// Today returns the start of the current day.
func (s *Store) Today() time.Time {
	return datekey.StartOfDay(s.now())
}

func (s *Store) SelectedDate() time.Time {
	return s.selected
}

func (s *Store) SelectedKey() string {
	return datekey.Format(s.selected)
}

// Select moves the cursor to the day of t.
func (s *Store) Select(t time.Time) {
	s.selected = datekey.StartOfDay(t.In(s.now().Location()))
}

// SelectedIsFuture reports whether the selected day is strictly after today.
func (s *Store) SelectedIsFuture() bool {
	return datekey.Compare(s.selected, s.now()) > 0
}

func (s *Store) Medications() []Medication {
	return append([]Medication{}, s.data.Medications...)
}

func (s *Store) Medication(id int64) (Medication, bool) {
	for _, m := range s.data.Medications {
		if m.ID == id {
			return m, true
		}
	}
	return Medication{}, false
}

func (s *Store) TakenFor(key string) []TakenRecord {
	return append([]TakenRecord{}, s.data.TakenRecords[key]...)
}

func (s *Store) EventsFor(key string) []Event {
	return append([]Event{}, s.data.Events[key]...)
}

// Snapshot returns a deep copy of everything the Store holds.
func (s *Store) Snapshot() Collections {
	return s.data.clone()
}

// AddMedication appends a medication scheduled every day at clock (HH:MM).
func (s *Store) AddMedication(ctx context.Context, name, clock string) (Medication, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Medication{}, ErrNameRequired
	}
	if strings.TrimSpace(clock) == "" {
		return Medication{}, ErrTimeRequired
	}
	normalized, err := datekey.ParseClock(clock)
	if err != nil {
		return Medication{}, fmt.Errorf("%w: %q", ErrInvalidTime, clock)
	}

	med := Medication{ID: s.ids.next(), Name: name, Time: normalized}
	s.data.Medications = append(s.data.Medications, med)
	s.log.Debug().Int64("id", med.ID).Str("name", med.Name).Msg("medication added")

	return med, s.save(ctx)
}

// TakeMedication records the medication as taken on the selected day at the
// current wall-clock time. created is false when a record already existed.
func (s *Store) TakeMedication(ctx context.Context, id int64) (rec TakenRecord, created bool, err error) {
	if s.SelectedIsFuture() {
		return TakenRecord{}, false, ErrFutureDay
	}
	if _, ok := s.Medication(id); !ok {
		return TakenRecord{}, false, fmt.Errorf("%w: %d", ErrMedicationNotFound, id)
	}

	key := s.SelectedKey()
	for _, r := range s.data.TakenRecords[key] {
		if r.MedicationID == id {
			return r, false, nil
		}
	}

	rec = TakenRecord{MedicationID: id, TakenAt: datekey.FormatClock(s.now())}
	s.data.TakenRecords[key] = append(s.data.TakenRecords[key], rec)
	s.log.Debug().Int64("id", id).Str("day", key).Str("taken_at", rec.TakenAt).Msg("medication taken")

	return rec, true, s.save(ctx)
}

// AddEvent records an event on the selected day. An empty clock means now.
func (s *Store) AddEvent(ctx context.Context, name, clock string) (Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Event{}, ErrNameRequired
	}

	normalized := datekey.FormatClock(s.now())
	if strings.TrimSpace(clock) != "" {
		var err error
		normalized, err = datekey.ParseClock(clock)
		if err != nil {
			return Event{}, fmt.Errorf("%w: %q", ErrInvalidTime, clock)
		}
	}

	key := s.SelectedKey()
	evt := Event{ID: s.ids.next(), Name: name, Time: normalized}
	s.data.Events[key] = append(s.data.Events[key], evt)
	s.log.Debug().Int64("id", evt.ID).Str("day", key).Msg("event added")

	return evt, s.save(ctx)
}

// DeleteMedication removes the medication and every taken-record that
// references it. Days left without records are dropped.
func (s *Store) DeleteMedication(ctx context.Context, id int64) error {
	idx := -1
	for i, m := range s.data.Medications {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrMedicationNotFound, id)
	}
	s.data.Medications = append(s.data.Medications[:idx:idx], s.data.Medications[idx+1:]...)

	for key, records := range s.data.TakenRecords {
		kept := records[:0:0]
		for _, r := range records {
			if r.MedicationID != id {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			delete(s.data.TakenRecords, key)
		} else {
			s.data.TakenRecords[key] = kept
		}
	}
	s.log.Debug().Int64("id", id).Msg("medication deleted")

	return s.save(ctx)
}

// DeleteEvent removes an event from the selected day.
func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	key := s.SelectedKey()
	events := s.data.Events[key]

	idx := -1
	for i, e := range events {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %d on %s", ErrEventNotFound, id, key)
	}

	kept := append(events[:idx:idx], events[idx+1:]...)
	if len(kept) == 0 {
		delete(s.data.Events, key)
	} else {
		s.data.Events[key] = kept
	}
	s.log.Debug().Int64("id", id).Str("day", key).Msg("event deleted")

	return s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	if err := s.gw.Save(ctx, s.data); err != nil {
		s.log.Error().Err(err).Msg("save failed, changes kept in memory")
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
