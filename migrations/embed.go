// Package migrations holds the versioned schema files applied by bun's
// migrator. Statements within a file are separated by --bun:split lines.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
