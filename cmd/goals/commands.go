package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"goalplan-backend/internal/apperr"
	"goalplan-backend/internal/relayclient"
)

func newAddCmd(a *app) *cobra.Command {
	var progress string

	cmd := &cobra.Command{
		Use:   "add <goal text>",
		Short: "Add a goal",
		Example: `  goals add "Run 5k" --progress "ran 1km"
  goals add "Do 30 push-ups" -p "10 push-ups"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.store.Add(cmd.Context(), strings.Join(args, " "), progress)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added goal %d: %s\n", g.ID, g.Text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&progress, "progress", "p", "", `starting progress, e.g. "ran 1km"`)
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List goals, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), renderGoals(a.store.List()))
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a goal by id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return apperr.Validation("id", "must be a number")
			}

			removed, err := a.store.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %d\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No goal with id %d\n", id)
			}
			return nil
		},
	}
}

func newPlanCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Ask the relay for a plan covering every goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := a.store.List()
			if len(list) == 0 {
				return apperr.Validation("goals", "add a goal before requesting a plan")
			}

			client := relayclient.New(a.cfg.RelayURL, a.cfg.Timeout, version)
			session := relayclient.NewSession(client)

			out := session.Request(cmd.Context(), list)
			a.logger.Debug("plan request finished",
				zap.Uint64("generation", out.Generation),
				zap.Stringer("state", session.State()))

			if out.Err != nil {
				return fmt.Errorf("could not generate plan, check relay logs: %w", out.Err)
			}

			w := cmd.OutOrStdout()
			if out.Response.UsedMock && out.Response.Notice != "" {
				fmt.Fprintln(w, noticeStyle.Render(out.Response.Notice))
			}
			fmt.Fprint(w, renderPlan(out.Response.Plan, raw))
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the plan without markdown rendering")
	return cmd
}
