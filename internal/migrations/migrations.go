// Package migrations embeds the goose schema migrations. The SQLite and
// PostgreSQL dialects each get their own directory; the repository managers
// pick the matching one.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SQLite embed.FS

//go:embed postgres/*.sql
var Postgres embed.FS
