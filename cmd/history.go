package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/agenda-backend/internal/data/repos"
	types "github.com/yungbote/agenda-backend/internal/domain"
	"github.com/yungbote/agenda-backend/internal/platform/dbctx"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the conversation log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := storage(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			dbc := dbctx.Context{Ctx: ctx}
			var turns []*types.Turn
			if limit > 0 {
				turns, err = a.Repos.Turn.RecentTurns(dbc, limit, repos.OrderChronological)
			} else {
				turns, err = a.Repos.Turn.AllTurns(dbc)
			}
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}

			if jsonOutput, _ := cmd.Root().PersistentFlags().GetBool("json"); jsonOutput {
				type row struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				}
				out := make([]row, 0, len(turns))
				for _, t := range turns {
					out = append(out, row{Role: t.Role, Content: t.Content})
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TIME\tROLE\tCONTENT")
			for _, t := range turns {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.CreatedAt.Local().Format(time.DateTime), t.Role, oneLine(t.Content, 100))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Only print the last n turns")
	return cmd
}

func oneLine(s string, width int) string {
	r := []rune(s)
	for i, c := range r {
		if c == '\n' || c == '\r' || c == '\t' {
			r[i] = ' '
		}
	}
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return string(r)
}
