package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "embed"

	"github.com/codemarcinu/steward/internal/types"
)

//go:embed schema.sql
var initialSchema string

// Migrator applies versioned schema migrations.
type Migrator interface {
	// Migrate applies every migration newer than the current version.
	Migrate(ctx context.Context) error
	// CurrentVersion reports the highest applied migration version.
	CurrentVersion(ctx context.Context) (int, error)
	// Rollback reverts the most recently applied migration.
	Rollback(ctx context.Context) error
	// AppliedMigrations lists applied migrations in version order.
	AppliedMigrations(ctx context.Context) ([]MigrationInfo, error)
}

// MigrationInfo describes one applied migration.
type MigrationInfo struct {
	Version   int    `json:"version"`
	Name      string `json:"name"`
	AppliedAt string `json:"applied_at"`
}

type migration struct {
	version int
	name    string
	up      string
	down    string
}

// migrations holds the ordered schema history. New migrations are
// appended with the next version number and never reordered.
var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		up:      initialSchema,
		down: `
			DROP INDEX IF EXISTS idx_spending_entries_category;
			DROP INDEX IF EXISTS idx_spending_entries_spent_at;
			DROP INDEX IF EXISTS idx_call_records_injection_risk;
			DROP INDEX IF EXISTS idx_call_records_parsed_tool;
			DROP INDEX IF EXISTS idx_call_records_created_at;
			DROP TABLE IF EXISTS knowledge_chunks;
			DROP TABLE IF EXISTS spending_entries;
			DROP TABLE IF EXISTS pantry_items;
			DROP TABLE IF EXISTS bookmarks;
			DROP TABLE IF EXISTS notes;
			DROP TABLE IF EXISTS call_records;
		`,
	},
}

type migrator struct {
	db *DB
}

// NewMigrator returns a Migrator bound to db.
func NewMigrator(db *DB) Migrator {
	return &migrator{db: db}
}

func (m *migrator) Migrate(ctx context.Context) error {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return err
	}

	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, mig := range migrations {
		if mig.version <= current {
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return types.WrapError(types.DB_MIGRATION_FAILED,
				fmt.Sprintf("apply migration %d (%s)", mig.version, mig.name), err)
		}
	}
	return nil
}

func (m *migrator) CurrentVersion(ctx context.Context) (int, error) {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return 0, err
	}

	var version int
	err := m.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, types.WrapError(types.DB_MIGRATION_FAILED, "read current schema version", err)
	}
	return version, nil
}

func (m *migrator) Rollback(ctx context.Context) error {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	if current == 0 {
		return types.NewError(types.DB_MIGRATION_FAILED, "no migrations to roll back")
	}

	var target migration
	for _, mig := range migrations {
		if mig.version == current {
			target = mig
			break
		}
	}
	if target.version == 0 {
		return types.NewError(types.DB_MIGRATION_FAILED,
			fmt.Sprintf("migration %d is applied but unknown to this build", current))
	}

	return m.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range splitSQL(target.down) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("rollback statement %q: %w", firstLine(stmt), err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM schema_migrations WHERE version = ?", target.version); err != nil {
			return fmt.Errorf("unregister migration %d: %w", target.version, err)
		}
		return nil
	})
}

func (m *migrator) AppliedMigrations(ctx context.Context) ([]MigrationInfo, error) {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx,
		"SELECT version, name, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, types.WrapError(types.DB_MIGRATION_FAILED, "list applied migrations", err)
	}
	defer rows.Close()

	var applied []MigrationInfo
	for rows.Next() {
		var info MigrationInfo
		if err := rows.Scan(&info.Version, &info.Name, &info.AppliedAt); err != nil {
			return nil, types.WrapError(types.DB_MIGRATION_FAILED, "scan migration row", err)
		}
		applied = append(applied, info)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.DB_MIGRATION_FAILED, "iterate migration rows", err)
	}
	return applied, nil
}

func (m *migrator) ensureMigrationsTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return types.WrapError(types.DB_MIGRATION_FAILED, "create schema_migrations table", err)
	}
	return nil
}

// apply runs one migration inside a transaction so a failed statement
// leaves the schema at the previous version.
func (m *migrator) apply(ctx context.Context, mig migration) error {
	return m.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range splitSQL(mig.up) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("statement %q: %w", firstLine(stmt), err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			mig.version, mig.name); err != nil {
			return fmt.Errorf("register migration %d: %w", mig.version, err)
		}
		return nil
	})
}

// splitSQL splits a script into individual statements. Semicolons
// inside string literals or BEGIN...END blocks (triggers) do not
// terminate a statement.
func splitSQL(script string) []string {
	script = removeComments(script)

	var statements []string
	var current strings.Builder
	depth := 0
	inString := false
	var stringDelim byte

	upper := strings.ToUpper(script)
	for i := 0; i < len(script); i++ {
		ch := script[i]

		if inString {
			current.WriteByte(ch)
			if ch == stringDelim {
				inString = false
			}
			continue
		}

		switch {
		case ch == '\'' || ch == '"':
			inString = true
			stringDelim = ch
			current.WriteByte(ch)
		case hasWordAt(upper, i, "BEGIN"):
			depth++
			current.WriteString(script[i : i+5])
			i += 4
		case hasWordAt(upper, i, "END"):
			if depth > 0 {
				depth--
			}
			current.WriteString(script[i : i+3])
			i += 2
		case ch == ';' && depth == 0:
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}

// hasWordAt reports whether upper contains word at offset i as a whole
// word, so identifiers like ENDING or column names containing BEGIN do
// not change nesting depth.
func hasWordAt(upper string, i int, word string) bool {
	if !strings.HasPrefix(upper[i:], word) {
		return false
	}
	if i > 0 && isWordByte(upper[i-1]) {
		return false
	}
	end := i + len(word)
	if end < len(upper) && isWordByte(upper[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// removeComments strips -- line comments and /* */ block comments,
// leaving string literals untouched.
func removeComments(script string) string {
	var out strings.Builder
	inString := false
	var stringDelim byte

	for i := 0; i < len(script); i++ {
		ch := script[i]

		if inString {
			out.WriteByte(ch)
			if ch == stringDelim {
				inString = false
			}
			continue
		}

		switch {
		case ch == '\'' || ch == '"':
			inString = true
			stringDelim = ch
			out.WriteByte(ch)
		case ch == '-' && i+1 < len(script) && script[i+1] == '-':
			for i < len(script) && script[i] != '\n' {
				i++
			}
			if i < len(script) {
				out.WriteByte('\n')
			}
		case ch == '/' && i+1 < len(script) && script[i+1] == '*':
			i += 2
			for i+1 < len(script) && !(script[i] == '*' && script[i+1] == '/') {
				i++
			}
			i++
		default:
			out.WriteByte(ch)
		}
	}
	return out.String()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	if len(s) > 60 {
		s = s[:60] + "..."
	}
	return s
}
