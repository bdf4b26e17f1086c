package sql

import (
	"context"
	"reflect"

	"github.com/pkg/errors"
)

func queryRows[T any](ctx context.Context, c *Connection, query string, arg any, limit int) ([]T, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rows, err := c.query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return readRows[T](rows, c.mapper, limit)
}

func queryDynamicRows(ctx context.Context, c *Connection, query string, arg any, limit int) ([]Row, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rows, err := c.query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return readDynamicRows(rows, limit)
}

// Query executes query and maps every row onto T
func Query[T any](ctx context.Context, c *Connection, query string, arg any) ([]T, error) {
	return queryRows[T](ctx, c, query, arg, 0)
}

// QueryFirstOrDefault returns the first row mapped onto T or nil if there
// are no rows
func QueryFirstOrDefault[T any](ctx context.Context, c *Connection, query string, arg any) (*T, error) {
	items, err := queryRows[T](ctx, c, query, arg, 1)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

// QuerySingleOrDefault returns the only row mapped onto T, nil if there are
// no rows or ErrMultipleRows if there's more than one
func QuerySingleOrDefault[T any](ctx context.Context, c *Connection, query string, arg any) (*T, error) {
	items, err := queryRows[T](ctx, c, query, arg, 2)
	if err != nil {
		return nil, err
	}
	switch len(items) {
	case 0:
		return nil, nil
	case 1:
		return &items[0], nil
	default:
		return nil, ErrMultipleRows
	}
}

func QueryDynamic(ctx context.Context, c *Connection, query string, arg any) ([]Row, error) {
	return queryDynamicRows(ctx, c, query, arg, 0)
}

func QueryFirstOrDefaultDynamic(ctx context.Context, c *Connection, query string, arg any) (*Row, error) {
	rows, err := queryDynamicRows(ctx, c, query, arg, 1)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func QuerySingleOrDefaultDynamic(ctx context.Context, c *Connection, query string, arg any) (*Row, error) {
	rows, err := queryDynamicRows(ctx, c, query, arg, 2)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return &rows[0], nil
	default:
		return nil, ErrMultipleRows
	}
}

// ExecuteScalar returns the first column of the first row, a null value
// is returned if there are no rows
func ExecuteScalar(ctx context.Context, c *Connection, query string, arg any) (Value, error) {
	row, err := QueryFirstOrDefaultDynamic(ctx, c, query, arg)
	if err != nil {
		return Value{}, err
	}
	if row == nil || row.Len() == 0 {
		return Value{kind: KindNull}, nil
	}
	return row.Get(row.Columns()[0]), nil
}

// ExecuteScalarAs scans the first column of the first row into T, the zero
// value of T is returned if there are no rows
func ExecuteScalarAs[T any](ctx context.Context, c *Connection, query string, arg any) (T, error) {
	var item T

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rows, err := c.query(ctx, query, arg)
	if err != nil {
		return item, err
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return item, err
	}
	if len(columns) == 0 {
		return item, errors.New("query returned no columns")
	}
	if !rows.Next() {
		return item, rows.Err()
	}
	m := &rowMapper{t: reflect.TypeOf(item), scannable: true}
	dest := m.destinations(reflect.ValueOf(&item).Elem(), len(columns), nil)
	if err := rows.Scan(dest...); err != nil {
		return item, err
	}
	return item, nil
}

// Execute executes a statement that doesn't return rows and returns the
// number of rows affected
func Execute(ctx context.Context, c *Connection, query string, arg any) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	result, err := c.exec(ctx, query, arg)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
