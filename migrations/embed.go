// Пакет migrations встраивает SQL-миграции для применения через goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
