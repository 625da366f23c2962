// migrations/embed.go
package migrations

import "embed"

// Files holds the SQL migration files for embedded use.
//
//go:embed *.sql
var Files embed.FS
