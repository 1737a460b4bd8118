package reminders

// Medication is a daily dose scheduled at Time (HH:MM).
type Medication struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"`
}

// TakenRecord marks a medication as taken on the day it is filed under.
// The medication id is serialized as "id" to stay compatible with stored data.
type TakenRecord struct {
	MedicationID int64  `json:"id"`
	TakenAt      string `json:"takenAt"`
}

// Event is a one-off item recorded on a single day.
type Event struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"`
}

// Collections is everything the Store persists: the medication list and the
// per-day taken-records and events, both keyed by date-key.
type Collections struct {
	Medications  []Medication             `json:"medications"`
	TakenRecords map[string][]TakenRecord `json:"takenRecords"`
	Events       map[string][]Event       `json:"events"`
}

func emptyCollections() Collections {
	return Collections{
		Medications:  []Medication{},
		TakenRecords: map[string][]TakenRecord{},
		Events:       map[string][]Event{},
	}
}

// clone returns a deep copy so callers never alias the Store's slices.
func (c Collections) clone() Collections {
	out := Collections{
		Medications:  append([]Medication{}, c.Medications...),
		TakenRecords: make(map[string][]TakenRecord, len(c.TakenRecords)),
		Events:       make(map[string][]Event, len(c.Events)),
	}
	for k, v := range c.TakenRecords {
		out.TakenRecords[k] = append([]TakenRecord{}, v...)
	}
	for k, v := range c.Events {
		out.Events[k] = append([]Event{}, v...)
	}
	return out
}
