package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/agenda-backend/internal/domain/schedule"
)

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Print the current schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := storage(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sched, err := a.Store.Read(ctx)
			if err != nil {
				return fmt.Errorf("read schedule: %w", err)
			}

			if jsonOutput, _ := cmd.Root().PersistentFlags().GetBool("json"); jsonOutput {
				raw, err := schedule.Encode(sched)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(raw)
				return err
			}

			if len(sched) == 0 {
				fmt.Println("Schedule is empty.")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tSTART\tSTATUS\tDESCRIPTION")
			for _, t := range sched {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.IDString(), t.StartTime, t.Status, t.Description)
			}
			return w.Flush()
		},
	}
}
