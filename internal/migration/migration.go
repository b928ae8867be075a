package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrIrreversible     = errors.New("migration cannot be reversed automatically")
	ErrUnknownMigration = errors.New("executed migration is not registered")
	ErrDuplicateName    = errors.New("duplicate migration name")
	ErrUnreachable      = errors.New("database unreachable")
)

// Conn is what a unit may use to change the schema.
type Conn interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Select(ctx context.Context, dest any, query string, args ...any) error
}

// Unit is one named schema change. Units run in ascending name order, so
// names start with a sortable timestamp.
type Unit struct {
	Name string
	Up   func(ctx context.Context, conn Conn) error
	Down func(ctx context.Context, conn Conn) error
}

// IrreversibleError is returned by the Down of a unit whose Up destroyed data.
type IrreversibleError struct {
	Reason string
}

func (e *IrreversibleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrIrreversible, e.Reason)
}

func (e *IrreversibleError) Unwrap() error {
	return ErrIrreversible
}

// Irreversible builds a Down that always refuses with reason.
func Irreversible(reason string) func(context.Context, Conn) error {
	return func(context.Context, Conn) error {
		return &IrreversibleError{Reason: reason}
	}
}

// Statements builds an Up or Down that runs each statement in order and
// stops at the first error.
func Statements(stmts ...string) func(context.Context, Conn) error {
	return func(ctx context.Context, conn Conn) error {
		for _, stmt := range stmts {
			if _, err := conn.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}
