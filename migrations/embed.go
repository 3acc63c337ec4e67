// Package migrations embeds the booking schema's SQL migrations. The same
// embedded set drives goose at server boot and in integration-test TestMains,
// so the schema under test is always the schema that ships.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Feed it to goose.NewProvider; nothing reads migration files from disk at
// runtime.
//
//go:embed *.sql
var FS embed.FS
