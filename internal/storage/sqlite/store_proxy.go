package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
	"github.com/louisbranch/atelier.studio/internal/storage"
)

// QueryRows executes a pre-validated read and returns rows as column maps.
func (s *Store) QueryRows(ctx context.Context, q storage.TableQuery) ([]map[string]any, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if q.Table == "" || len(q.Columns) == 0 {
		return nil, apperrors.New(apperrors.CodeDatabase, "table query is incomplete")
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "SELECT %s FROM %s", strings.Join(q.Columns, ", "), q.Table)
	if q.Where != "" {
		builder.WriteString(" WHERE ")
		builder.WriteString(q.Where)
	}
	if q.OrderBy != "" {
		builder.WriteString(" ORDER BY ")
		builder.WriteString(q.OrderBy)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&builder, " LIMIT %d", q.Limit)
	}
	if q.Offset > 0 {
		fmt.Fprintf(&builder, " OFFSET %d", q.Offset)
	}

	rows, err := s.sqlDB.QueryContext(ctx, builder.String(), q.Args...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "query "+q.Table, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	results := make([]map[string]any, 0)
	for rows.Next() {
		record, err := scanRowMap(rows, q.Columns)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "iterate "+q.Table, err)
	}
	return results, nil
}

// CountRows counts rows matching a pre-validated filter.
func (s *Store) CountRows(ctx context.Context, table, where string, args []any) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var count int64
	if err := s.sqlDB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "count "+table, err)
	}
	return count, nil
}

// GetRow loads one row by id as a column map.
func (s *Store) GetRow(ctx context.Context, table string, columns []string, id string) (map[string]any, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(columns, ", "), table),
		id,
	)
	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}
	if err := row.Scan(targets...); err != nil {
		if err == sql.ErrNoRows {
			return nil, recordNotFound(table, id)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "get row from "+table, err)
	}
	return rowMap(columns, values), nil
}

// InsertRow inserts one row built from pre-validated column values.
func (s *Store) InsertRow(ctx context.Context, table string, values map[string]any) error {
	if err := s.ready(); err != nil {
		return err
	}
	if len(values) == 0 {
		return apperrors.New(apperrors.CodeDatabase, "insert has no values")
	}
	columns := sortedKeys(values)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		args = append(args, values[column])
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders),
		args...,
	)
	if isUniqueViolation(err) {
		return apperrors.WithMetadata(apperrors.CodeConflict,
			"row violates a unique constraint", map[string]string{"table": table})
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "insert into "+table, err)
	}
	return nil
}

// UpdateRow updates one row guarded by its last read updated_at. The values
// map must carry the new updated_at.
func (s *Store) UpdateRow(ctx context.Context, table, id string, values map[string]any, expected time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	if len(values) == 0 {
		return apperrors.New(apperrors.CodeDatabase, "update has no values")
	}
	columns := sortedKeys(values)
	assignments := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		assignments = append(assignments, column+" = ?")
		args = append(args, values[column])
	}
	err := s.optimisticUpdate(ctx, table, strings.Join(assignments, ", "), args, id, expected)
	if isUniqueViolation(err) {
		return apperrors.WithMetadata(apperrors.CodeConflict,
			"row violates a unique constraint", map[string]string{"table": table})
	}
	return err
}

// DeleteRow removes one row by id.
func (s *Store) DeleteRow(ctx context.Context, table, id string) error {
	return s.deleteByID(ctx, table, id)
}

func scanRowMap(rows *sql.Rows, columns []string) (map[string]any, error) {
	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "scan row", err)
	}
	return rowMap(columns, values), nil
}

// rowMap converts raw scan values to JSON-friendly types.
func rowMap(columns []string, values []any) map[string]any {
	record := make(map[string]any, len(columns))
	for i, column := range columns {
		switch value := values[i].(type) {
		case []byte:
			record[column] = string(value)
		default:
			record[column] = value
		}
	}
	return record
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
