package migrations

import "embed"

// FS holds the SQL migration files, served to golang-migrate through the
// iofs source driver.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version Migrate targets; bump it together with
// each new migration pair.
const Version = 1
