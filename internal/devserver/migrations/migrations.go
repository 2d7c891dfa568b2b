// Package migrations embeds the devserver's schema migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
