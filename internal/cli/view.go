package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"household-planner/internal/service"
)

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the tasks of a day",
		Args:  cobra.NoArgs,
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
			view, err := a.engine.Day(cmd.Context(), day)
			if err != nil {
				return err
			}

			out := newOutput(rootOpts, cmd)
			if out.isJSON() {
				return out.writeJSON(view)
			}
			return writeDayTable(cmd.OutOrStdout(), view)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to show, YYYY-MM-DD (default today)")
	return cmd
}

func writeDayTable(w io.Writer, view service.DayView) error {
	state := "open"
	if view.Closed {
		state = "closed"
	}
	if _, err := fmt.Fprintf(w, "%s (%s, %s)\n", view.Date, view.Date.Weekday(), state); err != nil {
		return err
	}
	if len(view.Occurrences) == 0 {
		_, err := fmt.Fprintln(w, "nothing planned")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tORDER\tTITLE\tPRIORITY\tMIN\tSTATUS\tTEMPLATE")
	for _, occ := range view.Occurrences {
		template := "-"
		if occ.TemplateID != nil {
			template = fmt.Sprintf("%d", *occ.TemplateID)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\t%s\t%s\n",
			occ.ID, occ.Order, occ.Title, occ.Priority, occ.ExpectedMinutes, occ.Status, template)
	}
	return tw.Flush()
}
