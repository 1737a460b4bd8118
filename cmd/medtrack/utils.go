package main

import (
	"fmt"

	"github.com/unowned-ai/medtrack/pkg/datekey"
	"github.com/unowned-ai/medtrack/pkg/daylist"
	"github.com/unowned-ai/medtrack/pkg/locale"
	"github.com/unowned-ai/medtrack/pkg/reminders"
)

func printMedication(m reminders.Medication) {
	fmt.Printf("ID:   %d\n", m.ID)
	fmt.Printf("Time: %s\n", m.Time)
	fmt.Printf("Name: %s\n", m.Name)
}

// printDay prints a day list the way the day view shows it.
func printDay(view daylist.View, loc *locale.Locale) {
	day, err := datekey.Parse(view.DateKey)
	if err == nil {
		fmt.Printf("%s %d %s %d\n", loc.WeekdayShort(day.Weekday()), day.Day(), loc.MonthName(day.Month()), day.Year())
	} else {
		fmt.Println(view.DateKey)
	}
	fmt.Println("------------------------------------------------------------")

	if view.IsEmpty() {
		fmt.Println(view.Empty)
		return
	}
	for _, e := range view.Entries {
		kind := "M"
		if e.Kind == daylist.KindEvent {
			kind = "E"
		}
		line := fmt.Sprintf("%s %s  %-30s #%d", kind, e.Time, e.Name, e.ID)
		if e.Label != "" {
			line += "  [" + e.Label + "]"
		}
		fmt.Println(line)
	}
}
