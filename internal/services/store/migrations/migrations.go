// Package migrations embeds the goose SQL migrations for the export service's
// read models.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
