package sql

import (
	"context"
	"reflect"
	"strings"
)

const DefaultSplitOn = "Id"

// splitIndex returns the index of the right most column named splitOn,
// the first column is never a split point
func splitIndex(columns []string, splitOn string) int {
	for i := len(columns) - 1; i > 0; i-- {
		if strings.EqualFold(columns[i], splitOn) {
			return i
		}
	}
	return -1
}

// QueryJoin maps every row onto two records, columns left of splitOn go
// to T1 and the rest to T2, and returns what combine makes of them
func QueryJoin[T1, T2, R any](ctx context.Context, c *Connection, query string, arg any, splitOn string, combine func(T1, T2) R) ([]R, error) {
	if splitOn == "" {
		splitOn = DefaultSplitOn
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rows, err := c.query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	split := splitIndex(columns, splitOn)
	if split < 0 {
		return nil, ErrSplitOnNotFound
	}
	left, err := newRowMapper(c.mapper, reflect.TypeOf((*T1)(nil)).Elem(), columns[:split])
	if err != nil {
		return nil, err
	}
	right, err := newRowMapper(c.mapper, reflect.TypeOf((*T2)(nil)).Elem(), columns[split:])
	if err != nil {
		return nil, err
	}
	results := []R{}
	dest := make([]any, 0, len(columns))
	for rows.Next() {
		var first T1
		var second T2

		dest = left.destinations(reflect.ValueOf(&first).Elem(), split, dest[:0])
		dest = right.destinations(reflect.ValueOf(&second).Elem(), len(columns)-split, dest)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		results = append(results, combine(first, second))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
