// Package migrations ships the heritage_tourism_data schema. The server
// never applies it; operators run the files in name order and the
// integration tests apply them to their containers.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed *.sql
var files embed.FS

// Script is one migration file.
type Script struct {
	Name string
	SQL  string
}

// All returns every migration in name order.
func All() ([]Script, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	scripts := make([]Script, 0, len(names))
	for _, name := range names {
		data, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		scripts = append(scripts, Script{Name: name, SQL: string(data)})
	}
	return scripts, nil
}
