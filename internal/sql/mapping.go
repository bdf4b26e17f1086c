package sql

import (
	"database/sql"
	"reflect"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/reflectx"
	"github.com/pkg/errors"
)

var (
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
)

// rowMapper maps a contiguous range of columns onto a value of a given
// type; columns without a matching field are discarded
type rowMapper struct {
	t          reflect.Type
	scannable  bool
	traversals [][]int
}

func isScannable(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(scannerType) {
		return true
	}
	return t.Kind() != reflect.Struct || t == timeType
}

func newRowMapper(mapper *reflectx.Mapper, t reflect.Type, columns []string) (*rowMapper, error) {
	m := &rowMapper{t: t, scannable: isScannable(t)}
	if m.scannable {
		if len(columns) == 0 {
			return nil, errors.Errorf("no columns to scan into %s", t)
		}
		return m, nil
	}
	names := make([]string, 0, len(columns))
	for _, column := range columns {
		names = append(names, strings.ToLower(column))
	}
	m.traversals = mapper.TraversalsByName(t, names)
	return m, nil
}

// destinations appends scan destinations for v (addressable value of the
// mapper's type) to dest
func (m *rowMapper) destinations(v reflect.Value, n int, dest []any) []any {
	if m.scannable {
		dest = append(dest, v.Addr().Interface())
		for i := 1; i < n; i++ {
			dest = append(dest, new(any))
		}
		return dest
	}
	for _, traversal := range m.traversals {
		if len(traversal) == 0 {
			dest = append(dest, new(any))
			continue
		}
		dest = append(dest, reflectx.FieldByIndexes(v, traversal).Addr().Interface())
	}
	return dest
}

// readRows maps at most limit rows (all if limit <= 0) onto T, rows is not
// closed
func readRows[T any](rows *sql.Rows, mapper *reflectx.Mapper, limit int) ([]T, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	m, err := newRowMapper(mapper, reflect.TypeOf((*T)(nil)).Elem(), columns)
	if err != nil {
		return nil, err
	}
	items := []T{}
	dest := make([]any, 0, len(columns))
	for (limit <= 0 || len(items) < limit) && rows.Next() {
		var item T

		dest = m.destinations(reflect.ValueOf(&item).Elem(), len(columns), dest[:0])
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
