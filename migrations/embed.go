// Package migrations embeds the versioned SQL schema for every supported dialect.
package migrations

import "embed"

// SQLite holds the migrations used for the in-memory/sqlite backend.
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres holds the migrations used for PostgreSQL.
//
//go:embed postgres/*.sql
var Postgres embed.FS
