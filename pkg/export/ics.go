// Package export writes the recorded reminders in formats other calendars
// can import.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/unowned-ai/medtrack/pkg/datekey"
	"github.com/unowned-ai/medtrack/pkg/locale"
	"github.com/unowned-ai/medtrack/pkg/reminders"
)

const (
	ICSProductID = "-//unowned-ai//medtrack//EN"
	// EventDuration is the length given to every exported entry.
	EventDuration = 15 * time.Minute

	icsDateTime = "20060102T150405"
	icsStamp    = "20060102T150405Z"
)

// uidNamespace scopes the name-based UIDs so re-exports update entries in
// place instead of duplicating them.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/unowned-ai/medtrack"))

// ICSOptions selects what WriteICS emits.
type ICSOptions struct {
	From time.Time
	To   time.Time
	// Now stamps DTSTAMP; zero means time.Now.
	Now    time.Time
	Locale *locale.Locale
	// Alarms adds a display alarm at the time of each medication dose.
	Alarms bool
}

// WriteICS writes an iCalendar with one VEVENT per recorded event and one per
// medication dose on every day from opts.From to opts.To, inclusive.
func WriteICS(w io.Writer, c reminders.Collections, opts ICSOptions) error {
	if datekey.Compare(opts.From, opts.To) > 0 {
		return fmt.Errorf("export range starts after it ends: %s > %s",
			datekey.Format(opts.From), datekey.Format(opts.To))
	}
	loc := opts.Locale
	if loc == nil {
		loc = locale.MustLookup(locale.Default)
	}
	stamp := opts.Now
	if stamp.IsZero() {
		stamp = time.Now()
	}

	iw := &icsWriter{w: w}
	iw.line("BEGIN:VCALENDAR")
	iw.line("VERSION:2.0")
	iw.line("PRODID:" + ICSProductID)
	iw.line("CALSCALE:GREGORIAN")
	iw.line("X-WR-CALNAME:medtrack")

	for day := datekey.StartOfDay(opts.From); datekey.Compare(day, opts.To) <= 0; day = datekey.AddDays(day, 1) {
		key := datekey.Format(day)

		taken := make(map[int64]string)
		for _, r := range c.TakenRecords[key] {
			taken[r.MedicationID] = r.TakenAt
		}
		for _, m := range c.Medications {
			desc := ""
			if takenAt, ok := taken[m.ID]; ok {
				desc = loc.TakenAt(takenAt)
			}
			iw.event(vevent{
				uid:     entryUID("medication", m.ID, key),
				stamp:   stamp,
				start:   at(day, m.Time),
				summary: m.Name,
				desc:    desc,
				alarm:   opts.Alarms,
			})
		}

		events := append([]reminders.Event{}, c.Events[key]...)
		sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
		for _, e := range events {
			iw.event(vevent{
				uid:     entryUID("event", e.ID, key),
				stamp:   stamp,
				start:   at(day, e.Time),
				summary: e.Name,
			})
		}
	}

	iw.line("END:VCALENDAR")
	return iw.err
}

type vevent struct {
	uid     string
	stamp   time.Time
	start   time.Time
	summary string
	desc    string
	alarm   bool
}

// icsWriter keeps the first write error so the generator does not check
// every line.
type icsWriter struct {
	w   io.Writer
	err error
}

func (iw *icsWriter) line(s string) {
	if iw.err != nil {
		return
	}
	_, iw.err = io.WriteString(iw.w, s+"\r\n")
}

func (iw *icsWriter) event(ev vevent) {
	iw.line("BEGIN:VEVENT")
	iw.line("UID:" + ev.uid)
	iw.line("DTSTAMP:" + ev.stamp.UTC().Format(icsStamp))
	iw.line("DTSTART:" + ev.start.Format(icsDateTime))
	iw.line("DTEND:" + ev.start.Add(EventDuration).Format(icsDateTime))
	iw.line("SUMMARY:" + escapeText(ev.summary))
	if ev.desc != "" {
		iw.line("DESCRIPTION:" + escapeText(ev.desc))
	}
	if ev.alarm {
		iw.line("BEGIN:VALARM")
		iw.line("ACTION:DISPLAY")
		iw.line("DESCRIPTION:" + escapeText(ev.summary))
		iw.line("TRIGGER:PT0M")
		iw.line("END:VALARM")
	}
	iw.line("END:VEVENT")
}

func entryUID(kind string, id int64, key string) string {
	name := fmt.Sprintf("%s/%d/%s", kind, id, key)
	return uuid.NewSHA1(uidNamespace, []byte(name)).String() + "@medtrack"
}

// at places an HH:MM clock on day. Clocks are validated on input, so a bad
// one can only come from hand-edited data and falls back to midnight.
func at(day time.Time, clock string) time.Time {
	t, err := time.Parse(datekey.ClockLayout, clock)
	if err != nil {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

// escapeText escapes an iCalendar TEXT value (RFC 5545 3.3.11).
func escapeText(s string) string {
	return textEscaper.Replace(s)
}
