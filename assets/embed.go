// Package assets embeds the SQL migrations shipped with the server.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed migrations
var FS embed.FS

// Migrations returns the migration directory for a database/sql driver name.
func Migrations(driver string) (fs.FS, error) {
	dir := "migrations/" + driver
	if _, err := fs.Stat(FS, dir); err != nil {
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
	return fs.Sub(FS, dir)
}
