package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stickerart/art-ledger/internal/config"
	"github.com/stickerart/art-ledger/internal/db"
	"github.com/stickerart/art-ledger/internal/logger"
	"github.com/stickerart/art-ledger/internal/migration"
	"github.com/stickerart/art-ledger/migrations"
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "ART ledger şema migration aracı",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Migration durumunu göster",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd.Context(), func(runner *migration.Runner) error {
			status, err := runner.Status(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
			for _, m := range status.Migrations {
				state, appliedAt := "pending", "-"
				if m.Applied {
					state = "applied"
					appliedAt = m.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%06d\t%s\t%s\t%s\n", m.Version, m.Name, state, appliedAt)
			}
			w.Flush()

			fmt.Fprintf(cmd.OutOrStdout(), "\ncurrent=%d applied=%d pending=%d\n",
				status.CurrentVersion, status.AppliedCount, status.PendingCount)
			return nil
		})
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Bekleyen tüm migration'ları uygula",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd.Context(), func(runner *migration.Runner) error {
			results, err := runner.Up(cmd.Context())
			printResults(cmd, results)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Şema güncel, uygulanacak migration yok.")
			}
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Son uygulanan migration'ları geri al (varsayılan 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps pozitif bir sayı olmalı: %q", args[0])
			}
			steps = n
		}

		return withRunner(cmd.Context(), func(runner *migration.Runner) error {
			results, err := runner.Down(cmd.Context(), steps)
			printResults(cmd, results)
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, upCmd, downCmd)
}

func withRunner(ctx context.Context, fn func(*migration.Runner) error) error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, cfg.LogLevel)

	database, err := db.Connect(ctx, cfg.GetDSN(), db.PoolOptions{MaxOpenConns: 2})
	if err != nil {
		return err
	}
	defer func(database *sql.DB) { _ = database.Close() }(database)

	return fn(migration.NewRunner(database, migrations.FS, migration.CLIConfig()))
}

func printResults(cmd *cobra.Command, results []migration.Result) {
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%-4s %06d %s (%d statement, %s)\n",
			r.Direction, r.Version, r.Name, r.Statements, r.ExecutionTime.Round(time.Millisecond))
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
