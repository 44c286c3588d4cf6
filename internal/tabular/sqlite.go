package tabular

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kabutools/kabu-ledger/internal/apperrors"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore implements Store on a local SQLite file. Tables are still
// generic sheets: one relational table holds every (sheet, rownum) pair with
// its cells serialized as a JSON array, preserving the read-all/overwrite-all
// contract rather than promoting sheets to real relational tables.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) the database at path and applies
// pending migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// ReadAll returns every row of the sheet ordered by row number.
func (s *SQLiteStore) ReadAll(ctx context.Context, table string) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM sheet_row WHERE sheet = ? ORDER BY rownum ASC`, table)
	if err != nil {
		return nil, classify(fmt.Errorf("query sheet %s: %w", table, err))
	}
	defer rows.Close()

	result := [][]string{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, classify(fmt.Errorf("scan sheet %s: %w", table, err))
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("%w: decode row in sheet %s: %v", apperrors.ErrPermanentStore, table, err)
		}
		result = append(result, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterate sheet %s: %w", table, err))
	}
	return result, nil
}

// OverwriteAll replaces the sheet contents inside a single transaction:
// delete everything, then insert the new rows in order.
func (s *SQLiteStore) OverwriteAll(ctx context.Context, table string, rows [][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin overwrite of sheet %s: %w", table, err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet_row WHERE sheet = ?`, table); err != nil {
		return classify(fmt.Errorf("clear sheet %s: %w", table, err))
	}

	for i, row := range rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("%w: encode row %d of sheet %s: %v", apperrors.ErrPermanentStore, i, table, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sheet_row (sheet, rownum, cells) VALUES (?, ?, ?)`,
			table, i, string(cells)); err != nil {
			return classify(fmt.Errorf("insert row %d of sheet %s: %w", i, table, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit sheet %s: %w", table, err))
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping reports backend reachability, for health checks.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// classify maps SQLite failures onto the store error taxonomy. Lock
// contention is the only failure mode worth retrying on a single-file
// database; everything else escalates as permanent.
func classify(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY") {
		return fmt.Errorf("%w: %v", apperrors.ErrTransientStore, err)
	}
	return fmt.Errorf("%w: %v", apperrors.ErrPermanentStore, err)
}
