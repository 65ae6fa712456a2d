package cli

import (
	"fmt"
	"time"

	"chronocraft/internal/economy"
	"chronocraft/internal/profile"

	"github.com/spf13/cobra"
)

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the hero's level, resources and record",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, cleanup, err := opts.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := profile.Load(ctx, e.store, e.cfg.ProfileKey, e.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, heading(iconHourglass, "Hero Status"))
			fmt.Fprintln(out, labelValue("Level", p.Level))
			fmt.Fprintln(out, labelValue("Experience", fmt.Sprintf("%d / %d", p.Exp, p.ExpToNext)))
			fmt.Fprintln(out, labelValue("HP", fmt.Sprintf("%d / %d", p.HPCurrent, p.HPMax)))
			fmt.Fprintln(out, labelValue("Attack", p.Attack))
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, labelValue("Gold", styleGold.Render(fmt.Sprintf("%d %s", p.Gold, iconGold))))
			fmt.Fprintln(out, labelValue("Crystals", fmt.Sprintf("%d %s", p.Crystals, iconCrystal)))
			fmt.Fprintln(out, labelValue("Energy", fmt.Sprintf("%d / %d %s", p.Energy, p.EnergyMax, iconEnergy)))
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, labelValue("Record", fmt.Sprintf("%d won, %d lost, best tier %d", p.Stats.Wins, p.Stats.Losses, p.Stats.BestTier)))
			fmt.Fprintln(out, labelValue("Artifacts", len(p.Artifacts)))
			fmt.Fprintln(out, labelValue("Offline reward", offlineStatus(p, time.Now())))
			return nil
		},
	}
}

func offlineStatus(p *profile.Profile, now time.Time) string {
	if p.LastOfflineClaim == 0 {
		return styleGood.Render("ready")
	}
	left := economy.OfflineCooldown - now.Sub(time.UnixMilli(p.LastOfflineClaim))
	if left <= 0 {
		return styleGood.Render("ready")
	}
	return styleMuted.Render(fmt.Sprintf("in %s", left.Round(time.Second)))
}
