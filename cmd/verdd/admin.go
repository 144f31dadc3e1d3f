package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdd/verdd-backend/internal/app"
	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/service/auth"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Maintain the change history",
}

var pruneOlderThan time.Duration

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete history rows older than --older-than",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDeps(cmd, func(ctx context.Context, d *app.Deps) error {
			n, err := d.HistorySvc.PruneHistory(ctx, pruneOlderThan)
			if err != nil {
				return err
			}
			logger.Info("history pruned", slog.Int("deleted", n), slog.Duration("older_than", pruneOlderThan))
			return nil
		})
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userFlags struct {
	email    string
	username string
	password string
	role     string
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDeps(cmd, func(ctx context.Context, d *app.Deps) error {
			u, err := d.Auth.CreateUser(ctx, auth.CreateUserInput{
				Email:    userFlags.email,
				Username: userFlags.username,
				Password: userFlags.password,
				Role:     domain.Role(userFlags.role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", u.ID, u.Username, u.Role)
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())
	},
}

func init() {
	historyPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 365*24*time.Hour, "age of the rows to delete")
	historyCmd.AddCommand(historyPruneCmd)

	f := userCreateCmd.Flags()
	f.StringVar(&userFlags.email, "email", "", "email address")
	f.StringVar(&userFlags.username, "username", "", "login name")
	f.StringVar(&userFlags.password, "password", "", "initial password")
	f.StringVar(&userFlags.role, "role", string(domain.RoleEditor), "viewer, editor or admin")
	for _, name := range []string{"email", "username", "password"} {
		_ = userCreateCmd.MarkFlagRequired(name)
	}
	userCmd.AddCommand(userCreateCmd)
}
