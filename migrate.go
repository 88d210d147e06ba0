package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"portfolio-tracker/migrations"
	"portfolio-tracker/src/config"
	"portfolio-tracker/src/database"

	"github.com/google/subcommands"
)

type migrateCmd struct {
	settings string
	status   bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply the holdings schema to the configured postgres database" }
func (*migrateCmd) Usage() string {
	return `migrate [-settings <dir>] [-status]

  Applies every pending migration, or lists their state with -status.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.settings, "settings", "./settings", "Directory holding appsettings.yaml.")
	f.BoolVar(&c.status, "status", false, "Print the migration status instead of applying.")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.LoadConfig(c.settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if cfg.Persistence.Driver != config.PostgresDriver {
		fmt.Fprintf(os.Stderr, "persistence driver %q has no schema to migrate\n", cfg.Persistence.Driver)
		return subcommands.ExitUsageError
	}

	pool, err := database.SetupDB(ctx, cfg.Persistence.SQL)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer pool.Close()

	if c.status {
		if err := migrations.Status(ctx, pool); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if err := migrations.Up(ctx, pool); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println("Database migration completed successfully")
	return subcommands.ExitSuccess
}
