package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/zjrosen/addressbook/internal/alias"
)

// aliasRepository implements alias.Store using SQLite.
type aliasRepository struct {
	db  *sql.DB
	now func() time.Time
}

// newAliasRepository creates a new aliasRepository instance.
func newAliasRepository(db *sql.DB) *aliasRepository {
	return &aliasRepository{db: db, now: time.Now}
}

// Ensure aliasRepository implements alias.Store.
var _ alias.Store = (*aliasRepository)(nil)

// ReadAliases returns every stored alias.
func (r *aliasRepository) ReadAliases() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT alias, command FROM aliases`)
	if err != nil {
		return nil, fmt.Errorf("failed to query aliases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	aliases := make(map[string]string)
	for rows.Next() {
		var a, command string
		if err := rows.Scan(&a, &command); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		aliases[a] = command
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aliases: %w", err)
	}
	return aliases, nil
}

// SaveAliases replaces the table contents with aliases in one transaction.
func (r *aliasRepository) SaveAliases(aliases map[string]string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM aliases`); err != nil {
		return fmt.Errorf("failed to clear aliases: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO aliases (alias, command, updated_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := r.now().Unix()
	for a, command := range aliases {
		if _, err := stmt.Exec(a, command, now); err != nil {
			return fmt.Errorf("failed to insert alias %q: %w", a, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit aliases: %w", err)
	}
	return nil
}
