package main

import (
	"github.com/spf13/cobra"
	"github.com/unowned-ai/medtrack/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show terminal UI",
	Long:  `Display the interactive calendar: browse days, take medications, add and delete entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Log lines would draw over the alternate screen.
		if !cmd.Flags().Changed("log-level") {
			logLevel = "error"
		}
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		return tui.ShowTUI(s.store, s.loc, s.cfg.Calendar, s.dbPath, s.log)
	},
}
