// Package migrations embeds the schema so binaries and tests run the same SQL.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
