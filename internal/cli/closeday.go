package cli

import (
	"github.com/spf13/cobra"
)

type closeDayResult struct {
	Date      string `json:"date"`
	Snapshots int    `json:"snapshots"`
}

// NewCloseDayCommand creates the close-day command.
func NewCloseDayCommand(rootOpts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "close-day",
		Short: "Freeze a day's tasks into read-only records",
		Long: `Close a day: its merged task list is copied into snapshot records which
are returned for every later view of that day. Closing a day again replaces
the snapshots with the current live state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := a.resolveDate(date)
			if err != nil {
				return err
			}
			count, err := a.snapshots.Run(cmd.Context(), day)
			if err != nil {
				return err
			}

			out := newOutput(rootOpts, cmd)
			return out.result(closeDayResult{Date: string(day), Snapshots: count},
				"closed %s: %d task(s) frozen\n", day, count)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to close, YYYY-MM-DD (default today)")
	return cmd
}
