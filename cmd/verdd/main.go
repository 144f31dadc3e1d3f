// Command verdd administers a Verdd database: migrations, imports, exports,
// translation prediction, TermWiki sync and housekeeping.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/verdd/verdd-backend/internal/app"
	"github.com/verdd/verdd-backend/internal/config"
	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/pkg/ctxutil"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "verdd",
	Short: "Verdd dictionary administration",
	Long: `verdd manages the Skolt Sami - Finnish dictionary database.

Configuration is read from CONFIG_PATH (or ./config.yaml) and the
environment, the same way the server reads it. Commands act as an
administrator.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger = app.NewLogger(cfg.Log)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, importCmd, exportCmd, predictCmd, termwikiCmd, historyCmd, userCmd, versionCmd)
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// adminContext marks ctx as an administrator so the services accept writes
// and history rows carry a stable author.
func adminContext(ctx context.Context) context.Context {
	ctx = ctxutil.WithUserID(ctx, cliUserID)
	return ctxutil.WithRole(ctx, domain.RoleAdmin.String())
}

// cliUserID is the system user seeded by migration 00002. It is recorded
// as the author of changes made from the command line.
var cliUserID = uuid.MustParse("00000000-0000-0000-0000-00000000c11e")

// withDeps builds the service graph, runs fn as an administrator and
// releases the pool afterwards.
func withDeps(cmd *cobra.Command, fn func(ctx context.Context, d *app.Deps) error) error {
	ctx := adminContext(cmd.Context())
	d, err := app.NewDeps(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer d.Close()
	return fn(ctx, d)
}
