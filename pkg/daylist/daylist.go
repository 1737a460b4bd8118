// Package daylist builds the merged, time-ordered list of a day's medications
// and events together with the action each entry offers.
package daylist

import (
	"sort"
	"time"

	"github.com/unowned-ai/medtrack/pkg/datekey"
	"github.com/unowned-ai/medtrack/pkg/locale"
	"github.com/unowned-ai/medtrack/pkg/reminders"
)

type Kind string

const (
	KindMedication Kind = "medication"
	KindEvent      Kind = "event"
)

// Action is what an entry offers besides delete.
type Action string

const (
	ActionNone          Action = "none"
	ActionTake          Action = "take"
	ActionTakenLabel    Action = "taken"
	ActionNotTakenLabel Action = "not_taken"
)

type Entry struct {
	Kind Kind   `json:"kind"`
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"`

	Taken   bool   `json:"taken,omitempty"`
	TakenAt string `json:"takenAt,omitempty"`

	Action Action `json:"action"`
	// Label is the localized text of Action, empty for ActionNone.
	Label string `json:"label,omitempty"`
}

// View is the list of one day.
type View struct {
	DateKey string  `json:"date"`
	Entries []Entry `json:"entries"`
	// Empty holds the placeholder text when there are no entries.
	Empty string `json:"empty,omitempty"`
}

// Source is the read side of the reminder store.
type Source interface {
	Medications() []reminders.Medication
	TakenFor(key string) []reminders.TakenRecord
	EventsFor(key string) []reminders.Event
}

// Build lists every medication and the events of day, sorted by time.
// Equal times keep medications before events, each in insertion order.
func Build(src Source, day, today time.Time, loc *locale.Locale) View {
	key := datekey.Format(day)
	past := datekey.Compare(day, today) < 0

	taken := make(map[int64]string)
	for _, r := range src.TakenFor(key) {
		taken[r.MedicationID] = r.TakenAt
	}

	var entries []Entry
	for _, m := range src.Medications() {
		e := Entry{Kind: KindMedication, ID: m.ID, Name: m.Name, Time: m.Time}
		at, ok := taken[m.ID]
		switch {
		case ok:
			e.Taken, e.TakenAt = true, at
			e.Action, e.Label = ActionTakenLabel, loc.TakenAt(at)
		case past:
			e.Action, e.Label = ActionNotTakenLabel, loc.Labels.NotTaken
		default:
			e.Action, e.Label = ActionTake, loc.Labels.Take
		}
		entries = append(entries, e)
	}
	for _, ev := range src.EventsFor(key) {
		entries = append(entries, Entry{
			Kind:   KindEvent,
			ID:     ev.ID,
			Name:   ev.Name,
			Time:   ev.Time,
			Action: ActionNone,
		})
	}

	// Zero-padded HH:MM compares lexicographically in chronological order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time < entries[j].Time
	})

	v := View{DateKey: key, Entries: entries}
	if len(entries) == 0 {
		v.Entries = []Entry{}
		v.Empty = loc.Labels.Empty
	}
	return v
}

// IsEmpty reports whether the placeholder is shown instead of the list.
func (v View) IsEmpty() bool {
	return len(v.Entries) == 0
}
