package main

import (
	"context"

	"github.com/Veraticus/carbon-budget/internal/cli"
	"github.com/spf13/cobra"
)

func (a *app) interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"shell"},
		Short:   "Run the menu-driven tracker session",
		Long: `Start a line-oriented session: configure a budget if the account has
none, then log activities, view the summary or reset the budget from a
numbered menu. Every committed activity is stored immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tracker, store, err := a.openTracker(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			parent, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			out := cmd.OutOrStdout()
			handler := cli.NewInterruptHandler(out)
			ctx := handler.HandleInterrupts(parent, tracker.Account().Name())

			session := cli.NewSession(tracker, a.in, out, cli.WithDefaultPeriod(a.cfg.DefaultPeriod))
			if err := session.Run(ctx); err != nil && !handler.WasInterrupted() {
				return err
			}
			return nil
		},
	}
}
