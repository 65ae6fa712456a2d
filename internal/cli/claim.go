package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClaimCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "claim",
		Short: "Claim the offline reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, cleanup, err := opts.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			sess, err := e.session(ctx)
			if err != nil {
				return err
			}
			r, err := sess.ClaimOfflineReward(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s +%d %s  +%d %s\n",
				styleGood.Render("Offline reward claimed:"), r.Gold, iconGold, r.Energy, iconEnergy)
			return nil
		},
	}
}
