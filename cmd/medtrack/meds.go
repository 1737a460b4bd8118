package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/unowned-ai/medtrack/pkg/controller"
)

var (
	medNameFlag string
	medTimeFlag string
	takeDate    string
	assumeYes   bool
)

var medsCmd = &cobra.Command{
	Use:   "meds",
	Short: "Manage daily medications",
	Long:  `Add, list, take and delete the medications scheduled every day.`,
}

var addMedCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a daily medication",
	Long:  `Add a medication taken every day at the given time (HH:MM, 24h).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		err = s.run(cmd.Context(), controller.Request{
			Intent: controller.AddMedication,
			Name:   medNameFlag,
			Time:   medTimeFlag,
		})
		if err != nil {
			return err
		}

		meds := s.store.Medications()
		fmt.Println("Medication added:")
		printMedication(meds[len(meds)-1])
		return nil
	},
}

var listMedsCmd = &cobra.Command{
	Use:   "list",
	Short: "List medications",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		meds := s.store.Medications()
		if len(meds) == 0 {
			fmt.Println("No medications found.")
			return nil
		}

		fmt.Println("ID | Time | Name")
		fmt.Println("------------------------------------------------------------")
		for _, m := range meds {
			fmt.Printf("%d | %s | %s\n", m.ID, m.Time, m.Name)
		}
		return nil
	},
}

var takeMedCmd = &cobra.Command{
	Use:   "take [medication-id]",
	Short: "Mark a medication as taken",
	Long:  `Record the medication as taken on a day (today by default) at the current time. Future days are rejected.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		day, err := parseDateFlag(takeDate, s.store.Today())
		if err != nil {
			return err
		}
		if err := s.run(cmd.Context(), controller.Request{Intent: controller.Take, Date: day, ID: id}); err != nil {
			return err
		}

		printDay(s.ctl.Day(), s.loc)
		return nil
	},
}

var deleteMedCmd = &cobra.Command{
	Use:   "delete [medication-id]",
	Short: "Delete a medication and its history",
	Long:  `Delete a medication together with every record of it being taken. Asks for confirmation unless --yes is given.`,
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

		before := len(s.store.Medications())
		if err := s.run(cmd.Context(), controller.Request{Intent: controller.DeleteMedication, ID: id}); err != nil {
			return err
		}
		if len(s.store.Medications()) < before {
			fmt.Printf("Medication %d deleted.\n", id)
		}
		return nil
	},
}

func initMedsCmd() {
	addMedCmd.Flags().StringVar(&medNameFlag, "name", "", "Name of the medication (required)")
	addMedCmd.Flags().StringVar(&medTimeFlag, "time", "", "Time of the daily dose, HH:MM (required)")
	addMedCmd.MarkFlagRequired("name")
	addMedCmd.MarkFlagRequired("time")

	takeMedCmd.Flags().StringVar(&takeDate, "date", "", "Day of the dose, YYYY-MM-DD (default today)")

	deleteMedCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Delete without asking for confirmation")

	medsCmd.AddCommand(addMedCmd, listMedsCmd, takeMedCmd, deleteMedCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q: %w", s, err)
	}
	return id, nil
}
