package cli

import (
	"fmt"

	"chronocraft/internal/profile"
	"chronocraft/internal/progression"

	"github.com/spf13/cobra"
)

func newArtifactsCmd(opts *options) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "List collected artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if all {
				fmt.Fprintln(out, heading(iconGem, "Artifact Pool"))
				for _, def := range progression.ArtifactPool {
					fmt.Fprintf(out, "- %s [%s] %s\n", def.Name, rarityText(def.Rarity), styleMuted.Render(def.Desc))
				}
				return nil
			}

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
			fmt.Fprintln(out, heading(iconGem, fmt.Sprintf("Artifacts (%d)", len(p.Artifacts))))
			if len(p.Artifacts) == 0 {
				fmt.Fprintln(out, styleMuted.Render("None yet. Buy one in the shop."))
				return nil
			}
			for _, a := range p.Artifacts {
				a = progression.ResolveArtifact(a)
				fmt.Fprintf(out, "- %s [%s] %s\n", a.Name, rarityText(a.Rarity), styleMuted.Render(a.Desc))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every artifact that can drop")
	return cmd
}
