// Package migrations embeds the goose SQL migrations that define the local
// store schema. Applying them is idempotent: goose tracks the current
// version and re-running against an up-to-date database is a no-op.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
