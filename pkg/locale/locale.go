// Package locale holds the month and weekday names and the user-facing strings
// of the reminder views. Italian is the default, English is also available.
package locale

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const Default = "it"

var ErrUnknownLocale = errors.New("unknown locale")

// Labels are the strings shown next to day-list entries and in notices.
type Labels struct {
	TakenAt           string // format with the HH:MM the dose was taken
	NotTaken          string
	Take              string
	Delete            string
	Empty             string
	ConfirmDelete     string
	MedicationMissing string
	EventNameMissing  string
	FutureDay         string
	SaveFailed        string
}

type Locale struct {
	Code     string
	tag      language.Tag
	months   [12]string
	weekdays [7]string
	Labels   Labels
}

var locales = map[string]*Locale{
	"it": {
		Code: "it",
		tag:  language.Italian,
		months: [12]string{
			"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
			"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
		},
		weekdays: [7]string{"dom", "lun", "mar", "mer", "gio", "ven", "sab"},
		Labels: Labels{
			TakenAt:           "Presa alle %s",
			NotTaken:          "Non presa",
			Take:              "Prendi",
			Delete:            "Elimina",
			Empty:             "Nessuna medicina o evento per questo giorno.",
			ConfirmDelete:     "Vuoi eliminare questo elemento?",
			MedicationMissing: "Per favore, compila nome e orario.",
			EventNameMissing:  "Inserisci il nome dell'evento.",
			FutureDay:         "Non puoi segnare come presa una medicina in un giorno futuro.",
			SaveFailed:        "Salvataggio non riuscito: %v",
		},
	},
	"en": {
		Code: "en",
		tag:  language.English,
		months: [12]string{
			"january", "february", "march", "april", "may", "june",
			"july", "august", "september", "october", "november", "december",
		},
		weekdays: [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"},
		Labels: Labels{
			TakenAt:           "Taken at %s",
			NotTaken:          "Not taken",
			Take:              "Take",
			Delete:            "Delete",
			Empty:             "No medications or events for this day.",
			ConfirmDelete:     "Delete this item?",
			MedicationMissing: "Please fill in both name and time.",
			EventNameMissing:  "Please enter the event name.",
			FutureDay:         "A medication cannot be marked as taken on a future day.",
			SaveFailed:        "Saving failed: %v",
		},
	},
}

// Lookup returns the locale for a language code such as "it" or "en-US".
func Lookup(code string) (*Locale, error) {
	base := strings.ToLower(strings.TrimSpace(code))
	if base == "" {
		base = Default
	}
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}
	l, ok := locales[base]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, code)
	}
	return l, nil
}

// MustLookup is Lookup for codes known at compile time.
func MustLookup(code string) *Locale {
	l, err := Lookup(code)
	if err != nil {
		panic(err)
	}
	return l
}

// MonthName returns the capitalized month name, e.g. "Ottobre".
func (l *Locale) MonthName(m time.Month) string {
	return cases.Title(l.tag).String(l.months[m-1])
}

// WeekdayShort returns the abbreviated weekday, e.g. "lun".
func (l *Locale) WeekdayShort(d time.Weekday) string {
	return l.weekdays[d]
}

func (l *Locale) TakenAt(clock string) string {
	return fmt.Sprintf(l.Labels.TakenAt, clock)
}

func (l *Locale) SaveFailed(err error) string {
	return fmt.Sprintf(l.Labels.SaveFailed, err)
}
