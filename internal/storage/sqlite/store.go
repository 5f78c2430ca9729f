// Package sqlite implements the studio storage contract on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
	sqlitemigrate "github.com/louisbranch/atelier.studio/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/atelier.studio/internal/storage"
	"github.com/louisbranch/atelier.studio/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for studio data.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a studio SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready() error {
	if s == nil || s.sqlDB == nil {
		return apperrors.New(apperrors.CodeDatabase, "storage is not configured")
	}
	return nil
}

// optimisticUpdate runs an update guarded by the record's last read
// updated_at. Zero affected rows means either the record is gone or another
// writer got there first; the follow-up existence check distinguishes the
// two.
func (s *Store) optimisticUpdate(ctx context.Context, table, setClause string, args []any, id string, expected time.Time) error {
	args = append(args, id, timeToUnixMillis(expected))
	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE `+table+` SET `+setClause+` WHERE id = ? AND updated_at = ?`,
		args...,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "update "+table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "update "+table, err)
	}
	if affected == 0 {
		exists, err := s.rowExists(ctx, table, id)
		if err != nil {
			return err
		}
		if !exists {
			return recordNotFound(table, id)
		}
		return apperrors.WithMetadata(apperrors.CodeConflict,
			"record changed since it was read",
			map[string]string{"table": table, "id": id})
	}
	return nil
}

func (s *Store) rowExists(ctx context.Context, table, id string) (bool, error) {
	var one int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(apperrors.CodeDatabase, "check "+table, err)
	}
	return true, nil
}

func (s *Store) deleteByID(ctx context.Context, table, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "delete from "+table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "delete from "+table, err)
	}
	if affected == 0 {
		return recordNotFound(table, id)
	}
	return nil
}

func recordNotFound(table, id string) error {
	return apperrors.WithMetadata(apperrors.CodeNotFound, "record not found",
		map[string]string{"table": table, "id": id})
}

// isUniqueViolation reports whether err comes from a UNIQUE constraint,
// checking the whole cause chain.
func isUniqueViolation(err error) bool {
	for err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// runMigrations applies embedded SQL migrations in filename order.
func (s *Store) runMigrations() error {
	return sqlitemigrate.ApplyMigrations(s.sqlDB, migrations.FS, "")
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ storage.Store = (*Store)(nil)
