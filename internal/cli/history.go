package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var (
		limit    int
		everyone bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, cleanup, err := opts.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			player := e.player()
			if everyone {
				player = ""
			}
			entries, err := e.history.Recent(player, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, heading(iconScroll, "Recent Runs"))
			if len(entries) == 0 {
				fmt.Fprintln(out, styleMuted.Render("No runs recorded yet."))
				return nil
			}
			for i := len(entries) - 1; i >= 0; i-- {
				en := entries[i]
				fmt.Fprintf(out, "%s  tier %d  %-8s rooms %d/%d  +%d %s  +%d exp  %s\n",
					styleMuted.Render(en.Timestamp.Local().Format("2006-01-02 15:04")),
					en.Tier, outcomeText(en.Outcome), en.RoomReached, en.RoomsTotal,
					en.GoldEarned, iconGold, en.ExpEarned,
					styleMuted.Render(fmt.Sprintf("(dealt %d, took %d)", en.DamageDealt, en.DamageTaken)))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&everyone, "all-players", false, "include runs of every profile")
	return cmd
}
