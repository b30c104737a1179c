// Package assets embeds the default pool presets and the SQL migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed pools.txt sql/*.sql
var FS embed.FS

// Pools opens the embedded pool preset list.
func Pools() (fs.File, error) {
	return FS.Open("pools.txt")
}

// Migrations returns the embedded migration directory rooted at "sql".
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
