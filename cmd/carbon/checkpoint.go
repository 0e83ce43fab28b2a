package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/Veraticus/carbon-budget/internal/cli"
	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/storage"
	"github.com/spf13/cobra"
)

func (a *app) checkpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkpoint",
		Aliases: []string{"cp"},
		Short:   "Snapshot and restore the tracker database",
		Long: `Create named snapshots of the whole database and restore them later.

An automatic checkpoint is taken before every 'carbon budget reset';
the five most recent automatic checkpoints are kept.`,
	}

	cmd.AddCommand(a.checkpointCreateCmd())
	cmd.AddCommand(a.checkpointListCmd())
	cmd.AddCommand(a.checkpointRestoreCmd())
	cmd.AddCommand(a.checkpointDeleteCmd())

	return cmd
}

// withCheckpoints opens the database and hands its checkpoint manager to fn.
func (a *app) withCheckpoints(cmd *cobra.Command, fn func(*storage.CheckpointManager) error) error {
	store, err := a.initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	manager, err := store.Checkpoints()
	if err != nil {
		return err
	}
	return fn(manager)
}

func (a *app) checkpointCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [tag]",
		Short: "Create a checkpoint",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			tag := ""
			if len(args) == 1 {
				tag = args[0]
			}

			return a.withCheckpoints(cmd, func(manager *storage.CheckpointManager) error {
				info, err := manager.Create(cmd.Context(), tag, description)
				if err != nil {
					return checkpointError(err, tag)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
					"Checkpoint %s created (%d accounts, %d activities)", info.ID, info.Accounts, info.Transactions)))
				return nil
			})
		},
	}

	cmd.Flags().StringP("description", "d", "", "what the checkpoint is for")

	return cmd
}

func (a *app) checkpointListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List checkpoints, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCheckpoints(cmd, func(manager *storage.CheckpointManager) error {
				checkpoints, err := manager.List(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(checkpoints) == 0 {
					fmt.Fprintln(out, cli.FormatInfo("No checkpoints yet."))
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tCREATED\tACCOUNTS\tACTIVITIES\tDESCRIPTION")
				for _, cp := range checkpoints {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
						cp.ID, cp.CreatedAt.Format("2006-01-02 15:04"), cp.Accounts, cp.Transactions, cp.Description)
				}
				return w.Flush()
			})
		},
	}
}

func (a *app) checkpointRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Replace the database with a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCheckpoints(cmd, func(manager *storage.CheckpointManager) error {
				if err := manager.Restore(cmd.Context(), args[0]); err != nil {
					return checkpointError(err, args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Restored checkpoint "+args[0]))
				return nil
			})
		},
	}
}

func (a *app) checkpointDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a checkpoint",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCheckpoints(cmd, func(manager *storage.CheckpointManager) error {
				if err := manager.Delete(cmd.Context(), args[0]); err != nil {
					return checkpointError(err, args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted checkpoint "+args[0]))
				return nil
			})
		},
	}
}

func checkpointError(err error, id string) error {
	switch {
	case errors.Is(err, storage.ErrCheckpointNotFound):
		return common.NewUserError(fmt.Sprintf("checkpoint %q not found; run 'carbon checkpoint list'", id), err)
	case errors.Is(err, storage.ErrCheckpointExists):
		return common.NewUserError(fmt.Sprintf("checkpoint %q already exists", id), err)
	case errors.Is(err, storage.ErrInvalidCheckpointID):
		return common.NewUserError(fmt.Sprintf("invalid checkpoint name %q", id), err)
	}
	return err
}
