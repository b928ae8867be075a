package migration

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Storage records which units have been applied.
type Storage interface {
	Ensure(ctx context.Context) error
	// Exists reports whether the tracking table is there, without creating it.
	Exists(ctx context.Context) (bool, error)
	Log(ctx context.Context, name string) error
	Unlog(ctx context.Context, name string) error
	// Executed lists applied unit names, oldest first.
	Executed(ctx context.Context) ([]string, error)
}

const DefaultTable = "migrations"

// SQLStorage keeps the applied units in a table with a unique name column,
// so logging the same unit twice fails.
type SQLStorage struct {
	conn    Conn
	table   string
	dialect string
}

// NewSQLStorage creates a storage on table. dialect is the gorm dialector
// name and only affects the CREATE TABLE statement.
func NewSQLStorage(conn Conn, table, dialect string) *SQLStorage {
	if table == "" {
		table = DefaultTable
	}
	return &SQLStorage{conn: conn, table: table, dialect: dialect}
}

func (s *SQLStorage) Ensure(ctx context.Context) error {
	var ddl string
	switch s.dialect {
	case "sqlite":
		ddl = `CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name VARCHAR(255) NOT NULL UNIQUE,
			executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`
	default:
		ddl = `CREATE TABLE IF NOT EXISTS %s (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`
	}
	if _, err := s.conn.Exec(ctx, fmt.Sprintf(ddl, s.table)); err != nil {
		return fmt.Errorf("create %s table: %w", s.table, err)
	}
	return nil
}

func (s *SQLStorage) Exists(ctx context.Context) (bool, error) {
	var builder sq.SelectBuilder
	switch s.dialect {
	case "sqlite":
		builder = sq.Select("name").From("sqlite_master").Where(sq.Eq{"type": "table", "name": s.table})
	default:
		builder = sq.Select("table_name").From("information_schema.tables").
			Where("table_schema = DATABASE()").Where(sq.Eq{"table_name": s.table})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return false, err
	}
	names := make([]string, 0)
	if err := s.conn.Select(ctx, &names, query, args...); err != nil {
		return false, fmt.Errorf("look up %s table: %w", s.table, err)
	}
	return len(names) > 0, nil
}

func (s *SQLStorage) Log(ctx context.Context, name string) error {
	query, args, err := sq.Insert(s.table).Columns("name").Values(name).ToSql()
	if err != nil {
		return err
	}
	_, err = s.conn.Exec(ctx, query, args...)
	return err
}

func (s *SQLStorage) Unlog(ctx context.Context, name string) error {
	query, args, err := sq.Delete(s.table).Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return err
	}
	_, err = s.conn.Exec(ctx, query, args...)
	return err
}

func (s *SQLStorage) Executed(ctx context.Context) ([]string, error) {
	// executed_at has second precision on MySQL; id breaks ties.
	query, args, err := sq.Select("name").From(s.table).OrderBy("executed_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0)
	if err := s.conn.Select(ctx, &names, query, args...); err != nil {
		return nil, err
	}
	return names, nil
}
