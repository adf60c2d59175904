package pagecast

import "embed"

// MigrationsFS holds the postgres schema migrations applied at startup.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
