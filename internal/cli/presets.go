package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"submerge/internal/errors"
	"submerge/internal/store"
)

func newPresetsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage stored option presets",
	}
	cmd.AddCommand(newPresetsListCommand(ctx))
	cmd.AddCommand(newPresetsAddCommand(ctx))
	cmd.AddCommand(newPresetsRemoveCommand(ctx))
	return cmd
}

func newPresetsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := ctx.openStore(ctx.toolLogger())
			if err != nil {
				return err
			}
			defer st.Close()

			presets, err := st.ListPresets()
			if err != nil {
				return err
			}
			if len(presets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no presets saved")
				return nil
			}

			rows := make([][]string, 0, len(presets))
			for _, p := range presets {
				rows = append(rows, []string{
					p.ID,
					p.Name,
					p.Description,
					p.UpdatedAt.Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "NAME", "DESCRIPTION", "UPDATED"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newPresetsAddCommand(ctx *commandContext) *cobra.Command {
	var (
		flags       optionFlags
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Store a preset from the config defaults plus any option flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := ctx.openStore(ctx.toolLogger())
			if err != nil {
				return err
			}
			defer st.Close()

			created, err := st.CreatePreset(store.Preset{
				Name:        args[0],
				Description: description,
				Options:     flags.apply(cmd, cfg.Merge.Options()),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created preset %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	registerOptionFlags(cmd, &flags)
	cmd.Flags().StringVar(&description, "description", "", "Preset description")

	return cmd
}

func newPresetsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id|name>",
		Short: "Delete a stored preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore(ctx.toolLogger())
			if err != nil {
				return err
			}
			defer st.Close()

			p, err := st.GetPreset(args[0])
			if errors.Is(err, errors.ErrNotFound) {
				p, err = st.GetPresetByName(args[0])
			}
			if err != nil {
				return err
			}
			if err := st.DeletePreset(p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted preset %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
}
