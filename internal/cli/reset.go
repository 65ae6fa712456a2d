package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Start over with a fresh hero",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset discards all progress; pass --yes to confirm")
			}
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
			if err := sess.Reset(ctx); err != nil {
				return err
			}
			e.logger.Info("profile reset", "profile", e.cfg.ProfileKey)
			fmt.Fprintln(cmd.OutOrStdout(), styleWarn.Render("Profile reset. A new hero awaits."))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}
