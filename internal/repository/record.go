package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var ErrUnknownField = errors.New("unknown field")

// Querier is the slice of the connection manager the record store needs.
type Querier interface {
	Select(ctx context.Context, dest any, query string, args ...any) error
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Fields is a partial record keyed by logical field name.
type Fields map[string]any

// Columns maps logical field names to physical column names.
type Columns map[string]string

// Resolve returns the physical column for a logical field. Physical column
// names are accepted as-is; anything else is rejected so that caller input
// never reaches statement text unchecked.
func (c Columns) Resolve(field string) (string, error) {
	if column, ok := c[field]; ok {
		return column, nil
	}
	for _, column := range c {
		if column == field {
			return column, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
}

func (c Columns) resolveAll(fields Fields) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for field, value := range fields {
		column, err := c.Resolve(field)
		if err != nil {
			return nil, err
		}
		out[column] = value
	}
	return out, nil
}

// SortOrder is ASC or DESC; anything else is treated as ASC.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

func (o SortOrder) normalize() string {
	if strings.EqualFold(string(o), string(SortDesc)) {
		return string(SortDesc)
	}
	return string(SortAsc)
}

type SearchOptions struct {
	Search        string
	SearchColumns []string
	SortBy        string
	SortOrder     SortOrder
	Filter        Fields
}

// Table is the record store for one table. T is the row type; its gorm
// column tags name the physical columns and its json tags the logical ones.
type Table[T any] struct {
	conn    Querier
	name    string
	columns Columns
	idField string
	// idKind is the kind of T's id field, used to shape driver insert ids.
	idKind reflect.Kind
}

func NewTable[T any](conn Querier, name string, columns Columns) *Table[T] {
	return &Table[T]{
		conn:    conn,
		name:    name,
		columns: columns,
		idField: "id",
		idKind:  fieldKind(reflect.TypeFor[T](), "id"),
	}
}

// fieldKind returns the kind of the struct field whose json name is field,
// or reflect.Invalid when there is none.
func fieldKind(typ reflect.Type, field string) reflect.Kind {
	if typ.Kind() != reflect.Struct {
		return reflect.Invalid
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == field {
			kind := f.Type.Kind()
			if kind == reflect.Pointer {
				kind = f.Type.Elem().Kind()
			}
			return kind
		}
	}
	return reflect.Invalid
}

func (t *Table[T]) Name() string {
	return t.name
}

func (t *Table[T]) Columns() Columns {
	return t.columns
}

func (t *Table[T]) idColumn() string {
	column, err := t.columns.Resolve(t.idField)
	if err != nil {
		return t.idField
	}
	return column
}

func (t *Table[T]) selectRows(ctx context.Context, builder sq.SelectBuilder) ([]T, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows := make([]T, 0)
	if err := t.conn.Select(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (t *Table[T]) selectOne(ctx context.Context, builder sq.SelectBuilder) (*T, error) {
	rows, err := t.selectRows(ctx, builder.Limit(1))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (t *Table[T]) FindAll(ctx context.Context) ([]T, error) {
	return t.selectRows(ctx, sq.Select("*").From(t.name))
}

// FindAllByFilter matches every non-empty filter entry by equality. Nil,
// empty string and nil pointer values are dropped, so an all-empty filter
// behaves like FindAll.
func (t *Table[T]) FindAllByFilter(ctx context.Context, filter Fields) ([]T, error) {
	where, err := t.equalities(filter)
	if err != nil {
		return nil, err
	}
	builder := sq.Select("*").From(t.name)
	if len(where) > 0 {
		builder = builder.Where(where)
	}
	return t.selectRows(ctx, builder)
}

// FindByID returns (nil, nil) when no row has the id.
func (t *Table[T]) FindByID(ctx context.Context, id any) (*T, error) {
	return t.selectOne(ctx, sq.Select("*").From(t.name).Where(sq.Eq{t.idColumn(): id}))
}

// FindByCondition returns the first row matching all equalities, or nil.
func (t *Table[T]) FindByCondition(ctx context.Context, cond Fields) (*T, error) {
	where, err := t.columns.resolveAll(cond)
	if err != nil {
		return nil, err
	}
	builder := sq.Select("*").From(t.name)
	if len(where) > 0 {
		builder = builder.Where(sq.Eq(where))
	}
	return t.selectOne(ctx, builder)
}

// FindByIDs loads every row whose id is in ids with one query. Missing ids
// are simply absent from the result.
func (t *Table[T]) FindByIDs(ctx context.Context, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return t.selectRows(ctx, sq.Select("*").From(t.name).Where(sq.Eq{t.idColumn(): ids}))
}

// Create inserts fields. With a caller-supplied id the stored row is read
// back; otherwise the input is echoed with the driver-assigned id.
func (t *Table[T]) Create(ctx context.Context, fields Fields) (*T, error) {
	values, err := t.columns.resolveAll(fields)
	if err != nil {
		return nil, err
	}
	query, args, err := sq.Insert(t.name).SetMap(values).ToSql()
	if err != nil {
		return nil, err
	}
	result, err := t.conn.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	if id, ok := fields[t.idField]; ok && !isEmpty(id) {
		return t.FindByID(ctx, id)
	}

	insertID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read insert id for %s: %w", t.name, err)
	}
	echoed := make(Fields, len(fields)+1)
	for field, value := range fields {
		echoed[field] = value
	}
	if t.idKind == reflect.String {
		echoed[t.idField] = strconv.FormatInt(insertID, 10)
	} else {
		echoed[t.idField] = insertID
	}
	return decode[T](echoed)
}

// Update sets only the supplied fields and returns the row as stored.
func (t *Table[T]) Update(ctx context.Context, id any, fields Fields) (*T, error) {
	values, err := t.columns.resolveAll(fields)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		query, args, err := sq.Update(t.name).SetMap(values).Where(sq.Eq{t.idColumn(): id}).ToSql()
		if err != nil {
			return nil, err
		}
		if _, err := t.conn.Exec(ctx, query, args...); err != nil {
			return nil, err
		}
	}
	return t.FindByID(ctx, id)
}

// Delete removes the row and returns the driver result without checking
// that anything was deleted.
func (t *Table[T]) Delete(ctx context.Context, id any) (sql.Result, error) {
	query, args, err := sq.Delete(t.name).Where(sq.Eq{t.idColumn(): id}).ToSql()
	if err != nil {
		return nil, err
	}
	return t.conn.Exec(ctx, query, args...)
}

func (t *Table[T]) FindAllWithSearchAndSort(ctx context.Context, opts SearchOptions) ([]T, error) {
	builder := sq.Select("*").From(t.name)

	where, err := t.equalities(opts.Filter)
	if err != nil {
		return nil, err
	}
	if len(where) > 0 {
		builder = builder.Where(where)
	}

	if opts.Search != "" && len(opts.SearchColumns) > 0 {
		pattern := "%" + opts.Search + "%"
		or := make(sq.Or, 0, len(opts.SearchColumns))
		for _, field := range opts.SearchColumns {
			column, err := t.columns.Resolve(field)
			if err != nil {
				return nil, err
			}
			or = append(or, sq.Like{column: pattern})
		}
		builder = builder.Where(or)
	}

	if opts.SortBy != "" {
		column, err := t.columns.Resolve(opts.SortBy)
		if err != nil {
			return nil, err
		}
		builder = builder.OrderBy(column + " " + opts.SortOrder.normalize())
	}

	return t.selectRows(ctx, builder)
}

func (t *Table[T]) equalities(filter Fields) (sq.Eq, error) {
	where := sq.Eq{}
	for field, value := range filter {
		if isEmpty(value) {
			continue
		}
		column, err := t.columns.Resolve(field)
		if err != nil {
			return nil, err
		}
		where[column] = value
	}
	return where, nil
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return true
		}
		return isEmpty(v.Elem().Interface())
	case reflect.String:
		return v.Len() == 0
	}
	return false
}

func decode[T any](fields Fields) (*T, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var row T
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	return &row, nil
}
