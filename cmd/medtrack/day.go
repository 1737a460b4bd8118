package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/unowned-ai/medtrack/pkg/calendar"
	"github.com/unowned-ai/medtrack/pkg/controller"
	"github.com/unowned-ai/medtrack/pkg/datekey"
)

var (
	dayDate      string
	dayJSON      bool
	calendarFrom string
	calendarTo   string
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Show the medications and events of a day",
	Long:  `Print the day list: every medication with its taken state, and the events of the day, sorted by time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		day, err := parseDateFlag(dayDate, s.store.Today())
		if err != nil {
			return err
		}
		if err := s.run(cmd.Context(), controller.Request{Intent: controller.SelectDay, Date: day}); err != nil {
			return err
		}

		view := s.ctl.Day()
		if dayJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		}
		printDay(view, s.loc)
		return nil
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the calendar window",
	Long: `Print the days of the calendar window with their month dividers. Selecting a day
outside the window (--date) extends it by whole batches, as scrolling does.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		today := s.store.Today()
		day, err := parseDateFlag(dayDate, today)
		if err != nil {
			return err
		}
		if err := s.run(cmd.Context(), controller.Request{Intent: controller.SelectDay, Date: day}); err != nil {
			return err
		}

		strip := s.ctl.Strip()
		items := strip.Items()
		from, to := items[0].Date, items[len(items)-1].Date
		if calendarFrom != "" {
			if from, err = parseDateFlag(calendarFrom, today); err != nil {
				return err
			}
		}
		if calendarTo != "" {
			if to, err = parseDateFlag(calendarTo, today); err != nil {
				return err
			}
		}

		w := strip.Window()
		fmt.Printf("Window: %s .. %s (%+d..%+d days)\n",
			datekey.Format(datekey.AddDays(today, w.Min)), datekey.Format(datekey.AddDays(today, w.Max)), w.Min, w.Max)
		for _, it := range items {
			if datekey.Compare(it.Date, from) < 0 || datekey.Compare(it.Date, to) > 0 {
				continue
			}
			if it.Kind == calendar.KindDivider {
				fmt.Printf("%s %d\n", it.Label, it.Date.Year())
				continue
			}
			marker := "  "
			switch {
			case it.Selected:
				marker = "> "
			case it.Today:
				marker = "* "
			}
			fmt.Printf("%s%-3s %2d  %s\n", marker, it.Weekday, it.Number, it.Key)
		}
		return nil
	},
}

func initDayCmd() {
	dayCmd.Flags().StringVar(&dayDate, "date", "", "Day to show, YYYY-MM-DD (default today)")
	dayCmd.Flags().BoolVar(&dayJSON, "json", false, "Print the day list as JSON")

	calendarCmd.Flags().StringVar(&dayDate, "date", "", "Day to select, YYYY-MM-DD (default today)")
	calendarCmd.Flags().StringVar(&calendarFrom, "from", "", "First day to print, YYYY-MM-DD (default window start)")
	calendarCmd.Flags().StringVar(&calendarTo, "to", "", "Last day to print, YYYY-MM-DD (default window end)")
}
