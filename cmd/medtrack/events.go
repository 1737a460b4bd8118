package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unowned-ai/medtrack/pkg/controller"
	"github.com/unowned-ai/medtrack/pkg/datekey"
)

var (
	eventNameFlag string
	eventTimeFlag string
	eventDate     string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage one-off events",
	Long:  `Add, list and delete events recorded on a single day.`,
}

var addEventCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an event to a day",
	Long:  `Record an event on a day (today by default). Without --time the current time is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		day, err := parseDateFlag(eventDate, s.store.Today())
		if err != nil {
			return err
		}
		err = s.run(cmd.Context(), controller.Request{
			Intent: controller.AddEvent,
			Date:   day,
			Name:   eventNameFlag,
			Time:   eventTimeFlag,
		})
		if err != nil {
			return err
		}

		events := s.store.EventsFor(datekey.Format(day))
		e := events[len(events)-1]
		fmt.Println("Event added:")
		fmt.Printf("ID:   %d\n", e.ID)
		fmt.Printf("Day:  %s\n", datekey.Format(day))
		fmt.Printf("Time: %s\n", e.Time)
		fmt.Printf("Name: %s\n", e.Name)
		return nil
	},
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the events of a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		day, err := parseDateFlag(eventDate, s.store.Today())
		if err != nil {
			return err
		}
		events := s.store.EventsFor(datekey.Format(day))
		if len(events) == 0 {
			fmt.Printf("No events on %s.\n", datekey.Format(day))
			return nil
		}

		fmt.Println("ID | Time | Name")
		fmt.Println("------------------------------------------------------------")
		for _, e := range events {
			fmt.Printf("%d | %s | %s\n", e.ID, e.Time, e.Name)
		}
		return nil
	},
}

var deleteEventCmd = &cobra.Command{
	Use:   "delete [event-id]",
	Short: "Delete an event from a day",
	Long:  `Delete an event recorded on a day (today by default). Asks for confirmation unless --yes is given.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		s, err := openSession(cmd, assumeYes)
		if err != nil {
			return err
		}
		defer s.Close()

		day, err := parseDateFlag(eventDate, s.store.Today())
		if err != nil {
			return err
		}
		key := datekey.Format(day)
		before := len(s.store.EventsFor(key))
		if err := s.run(cmd.Context(), controller.Request{Intent: controller.DeleteEvent, Date: day, ID: id}); err != nil {
			return err
		}
		if len(s.store.EventsFor(key)) < before {
			fmt.Printf("Event %d deleted from %s.\n", id, key)
		}
		return nil
	},
}

func initEventsCmd() {
	eventsCmd.PersistentFlags().StringVar(&eventDate, "date", "", "Day of the event, YYYY-MM-DD (default today)")

	addEventCmd.Flags().StringVar(&eventNameFlag, "name", "", "Name of the event (required)")
	addEventCmd.Flags().StringVar(&eventTimeFlag, "time", "", "Time of the event, HH:MM (default now)")
	addEventCmd.MarkFlagRequired("name")

	deleteEventCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Delete without asking for confirmation")

	eventsCmd.AddCommand(addEventCmd, listEventsCmd, deleteEventCmd)
}
