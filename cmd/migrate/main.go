package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/config"
	"github.com/Baaaki/planogram-backoffice/internal/database"
	"github.com/Baaaki/planogram-backoffice/internal/migration"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	steps int
	name  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Database migration tools",
		Long:         `Apply, revert and inspect the schema migrations of the planogram database.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migrations",
		RunE:  runDown,
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to revert")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show executed and pending migrations",
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Print a stub for a new migration",
		Long:  `Print a timestamped migration unit to stdout. Paste it into internal/migration/units.go and register it.`,
		RunE:  runCreate,
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// initRunner connects to the configured database. The returned close func
// releases the pool.
func initRunner() (*migration.Runner, func(), error) {
	cfg := config.Load()
	if err := logger.Init(!cfg.IsProduction()); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db := database.NewManager(database.MySQLOpener(cfg.Database), database.PoolConfigFrom(cfg.Database))
	closeAll := func() {
		_ = db.Close()
		logger.Sync()
	}

	dialect, err := db.Dialect()
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	runner, err := migration.NewRunner(db, migration.NewSQLStorage(db, "", dialect), migration.Registered())
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return runner, closeAll, nil
}

func runUp(cmd *cobra.Command, _ []string) error {
	runner, closeAll, err := initRunner()
	if err != nil {
		return err
	}
	defer closeAll()

	applied, err := runner.Up(cmd.Context())
	for _, unit := range applied {
		fmt.Fprintf(cmd.OutOrStdout(), "applied  %s\n", unit)
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
	}
	return nil
}

func runDown(cmd *cobra.Command, _ []string) error {
	runner, closeAll, err := initRunner()
	if err != nil {
		return err
	}
	defer closeAll()

	for i := 0; i < steps; i++ {
		reverted, err := runner.RevertLast(cmd.Context())
		if err != nil {
			return fmt.Errorf("revert failed: %w", err)
		}
		if reverted == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to revert")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reverted %s\n", reverted)
	}
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	runner, closeAll, err := initRunner()
	if err != nil {
		return err
	}
	defer closeAll()

	status, err := runner.Status(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, unit := range status.Executed {
		fmt.Fprintf(out, "executed %s\n", unit)
	}
	for _, unit := range status.Pending {
		fmt.Fprintf(out, "pending  %s\n", unit)
	}
	return nil
}

func runCreate(cmd *cobra.Command, _ []string) error {
	fullName, err := migration.NewName(time.Now().UTC(), name)
	if err != nil {
		return err
	}
	return migration.WriteStub(cmd.OutOrStdout(), fullName)
}
