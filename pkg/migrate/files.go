package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/pressly/goose/v3"
)

// RegisterTables are the tables the postgres migrations must create. They
// mirror models.All, which sqlite gets through AutoMigrate.
var RegisterTables = []string{"products", "sales", "sale_line_items", "daily_stats"}

var (
	fileNameRe     = regexp.MustCompile(`^\d{14}_[a-z0-9_]+\.sql$`)
	nameSanitizeRe = regexp.MustCompile(`[^a-z0-9]+`)
	createTableRe  = regexp.MustCompile(`(?i)CREATE TABLE (?:IF NOT EXISTS )?([a-z_][a-z0-9_]*)`)
	dropTableRe    = regexp.MustCompile(`(?i)DROP TABLE (?:IF EXISTS )?([a-z_][a-z0-9_]*)`)
)

var sqlTemplate = template.Must(template.New("catcoin.sql-migration").Parse(`-- +goose Up
-- +goose StatementBegin
SELECT 'up {{.CamelName}}';
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
SELECT 'down {{.CamelName}}';
-- +goose StatementEnd
`))

// File is one goose SQL migration on disk.
type File struct {
	Version int64
	Path    string
	// Created and Dropped list the tables touched by the Up and Down sections.
	Created []string
	Dropped []string
}

// ListDir collects the migrations in dir the way goose will run them, in
// version order, and parses which tables each one creates and drops.
func ListDir(dir string) ([]File, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	migrations, err := goose.CollectMigrations(dir, 0, goose.MaxVersion)
	if err != nil {
		return nil, fmt.Errorf("collect migrations in %q: %w", dir, err)
	}

	files := make([]File, 0, len(migrations))
	seen := map[int64]string{}
	for _, m := range migrations {
		base := filepath.Base(m.Source)
		if !fileNameRe.MatchString(base) {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", base)
		}
		if prev, ok := seen[m.Version]; ok {
			return nil, fmt.Errorf("duplicate migration version %d in %q and %q", m.Version, prev, base)
		}
		seen[m.Version] = base

		file, err := parseFile(m.Version, m.Source)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func parseFile(version int64, path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read migration %q: %w", path, err)
	}
	name := filepath.Base(path)
	text := string(raw)

	upAt := strings.Index(text, "-- +goose Up")
	downAt := strings.Index(text, "-- +goose Down")
	switch {
	case upAt < 0:
		return File{}, fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
	case downAt < 0:
		return File{}, fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
	case downAt < upAt:
		return File{}, fmt.Errorf("migration %q has its Down section before Up", name)
	}
	if begins, ends := strings.Count(text, "-- +goose StatementBegin"), strings.Count(text, "-- +goose StatementEnd"); begins != ends {
		return File{}, fmt.Errorf("migration %q has %d StatementBegin and %d StatementEnd markers", name, begins, ends)
	}

	return File{
		Version: version,
		Path:    path,
		Created: tableNames(createTableRe, text[upAt:downAt]),
		Dropped: tableNames(dropTableRe, text[downAt:]),
	}, nil
}

func tableNames(re *regexp.Regexp, section string) []string {
	var names []string
	for _, m := range re.FindAllStringSubmatch(section, -1) {
		names = append(names, strings.ToLower(m[1]))
	}
	return names
}

// ValidateDir checks that every migration parses and that each table created
// by an Up section is dropped again by its Down section, so rollbacks leave no
// orphaned register tables behind.
func ValidateDir(dir string) error {
	files, err := ListDir(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		dropped := map[string]bool{}
		for _, table := range f.Dropped {
			dropped[table] = true
		}
		for _, table := range f.Created {
			if !dropped[table] {
				return fmt.Errorf("migration %q creates %s but its Down section does not drop it", filepath.Base(f.Path), table)
			}
		}
	}
	return nil
}

// RequireTables fails unless the migrations in dir create every named table.
func RequireTables(dir string, tables ...string) error {
	files, err := ListDir(dir)
	if err != nil {
		return err
	}
	created := map[string]bool{}
	for _, f := range files {
		for _, table := range f.Created {
			created[table] = true
		}
	}
	var missing []string
	for _, table := range tables {
		if !created[table] {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no migration creates %s", strings.Join(missing, ", "))
	}
	return nil
}

// CreateSQLMigration writes a timestamped goose SQL migration into dir and
// returns its path.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := strings.Trim(nameSanitizeRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	goose.SetSequential(false)
	if err := goose.CreateWithTemplate(nil, dir, sqlTemplate, safe, "sql"); err != nil {
		return "", fmt.Errorf("create migration %q: %w", safe, err)
	}

	migrations, err := goose.CollectMigrations(dir, 0, goose.MaxVersion)
	if err != nil && !errors.Is(err, goose.ErrNoMigrationFiles) {
		return "", fmt.Errorf("collect migrations in %q: %w", dir, err)
	}
	for i := len(migrations) - 1; i >= 0; i-- {
		if strings.HasSuffix(migrations[i].Source, "_"+safe+".sql") {
			return migrations[i].Source, nil
		}
	}
	return "", fmt.Errorf("created migration %q not found in %q", safe, dir)
}
