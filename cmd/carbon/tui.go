package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/tui"
	"github.com/Veraticus/carbon-budget/internal/tui/themes"
	"github.com/spf13/cobra"
)

func (a *app) tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen tracker",
		Long: `Open the terminal UI: a live budget gauge, a category picker for
logging activities and a summary view.`,
		Args: cobra.NoArgs,
		RunE: a.runTUI,
	}

	cmd.Flags().String("theme", "", "color theme ("+strings.Join(themes.Names(), ", ")+")")
	cmd.Flags().Bool("no-alt-screen", false, "Render inline instead of using the alternate screen")

	return cmd
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	themeName, _ := cmd.Flags().GetString("theme")
	noAltScreen, _ := cmd.Flags().GetBool("no-alt-screen")

	theme, ok := themes.ByName(themeName)
	if !ok {
		return common.NewUserError(
			fmt.Sprintf("unknown theme %q; choose one of %s", themeName, strings.Join(themes.Names(), ", ")),
			common.ErrInvalidArgument)
	}

	ctx := cmd.Context()
	tracker, store, err := a.openTracker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return tui.Run(ctx,
		tui.WithTracker(tracker),
		tui.WithTheme(theme),
		tui.WithDefaultPeriod(a.cfg.DefaultPeriod),
		tui.WithAltScreen(!noAltScreen),
	)
}
