package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/unowned-ai/medtrack/pkg/datekey"
	"github.com/unowned-ai/medtrack/pkg/export"
)

var (
	exportFrom   string
	exportTo     string
	exportOut    string
	exportAlarms bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export reminders to other formats",
}

var exportICSCmd = &cobra.Command{
	Use:   "ics",
	Short: "Export medications and events as an iCalendar file",
	Long: `Write an iCalendar (.ics) file with one event per medication dose on every day of the
range and one per recorded event. The range defaults to the last 15 and the next 30 days.
Without --out the calendar is written to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		today := s.store.Today()
		from, err := parseDateFlag(exportFrom, datekey.AddDays(today, s.cfg.Calendar.MinOffset))
		if err != nil {
			return err
		}
		to, err := parseDateFlag(exportTo, datekey.AddDays(today, s.cfg.Calendar.MaxOffset))
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOut != "" && exportOut != "-" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOut, err)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("failed to write %s: %w", exportOut, cerr)
				}
			}()
			w = f
		}

		err = export.WriteICS(w, s.store.Snapshot(), export.ICSOptions{
			From:   from,
			To:     to,
			Locale: s.loc,
			Alarms: exportAlarms,
		})
		if err != nil {
			return fmt.Errorf("failed to export calendar: %w", err)
		}
		if exportOut != "" && exportOut != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s .. %s to %s\n", datekey.Format(from), datekey.Format(to), exportOut)
		}
		return nil
	},
}

func initExportCmd() {
	exportICSCmd.Flags().StringVar(&exportFrom, "from", "", "First day, YYYY-MM-DD")
	exportICSCmd.Flags().StringVar(&exportTo, "to", "", "Last day, YYYY-MM-DD")
	exportICSCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
	exportICSCmd.Flags().BoolVar(&exportAlarms, "alarms", false, "Add a reminder alarm to every medication dose")

	exportCmd.AddCommand(exportICSCmd)
}
