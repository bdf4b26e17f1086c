package sql

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindDecimal
	KindDate
	KindBool
	KindBytes
)

func (k Kind) String() string {
	switch k {
	default:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	}
}

// Value is a single column value read without a fixed record shape
type Value struct {
	kind    Kind
	s       string
	i       int64
	d       decimal.Decimal
	t       time.Time
	b       bool
	bytes   []byte
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindDecimal:
		if v.d.IsInteger() {
			return v.d.IntPart(), true
		}
	case KindString:
		if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

func (v Value) Decimal() (decimal.Decimal, bool) {
	switch v.kind {
	case KindDecimal:
		return v.d, true
	case KindInt:
		return decimal.NewFromInt(v.i), true
	case KindString:
		if d, err := decimal.NewFromString(v.s); err == nil {
			return d, true
		}
	}
	return decimal.Zero, false
}

func (v Value) Time() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.t, true
}

func (v Value) Bool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindInt:
		return v.i != 0, true
	}
	return false, false
}

func (v Value) Bytes() []byte {
	if v.kind == KindBytes {
		return v.bytes
	}
	return nil
}

// Any returns the underlying go value (nil for null)
func (v Value) Any() any {
	switch v.kind {
	default:
		return nil
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindDecimal:
		return v.d
	case KindDate:
		return v.t
	case KindBool:
		return v.b
	case KindBytes:
		return v.bytes
	}
}

// String renders the value for display, null renders as an empty string
func (v Value) String() string {
	switch v.kind {
	default:
		return ""
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDecimal:
		return v.d.String()
	case KindDate:
		return v.t.Format(time.DateTime)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindBytes:
		return fmt.Sprintf("%x", v.bytes)
	}
}

func isDecimalType(databaseTypeName string) bool {
	s := strings.ToUpper(databaseTypeName)
	return strings.HasPrefix(s, "DECIMAL") || strings.HasPrefix(s, "NUMERIC") ||
		strings.Contains(s, "MONEY")
}

func isIntType(databaseTypeName string) bool {
	return strings.Contains(strings.ToUpper(databaseTypeName), "INT")
}

func isBinaryType(databaseTypeName string) bool {
	s := strings.ToUpper(databaseTypeName)
	return strings.Contains(s, "BINARY") || strings.Contains(s, "BLOB") ||
		s == "BYTEA" || s == "IMAGE"
}

func newValueFromString(s, databaseTypeName string) Value {
	switch {
	case isDecimalType(databaseTypeName):
		if d, err := decimal.NewFromString(s); err == nil {
			return Value{kind: KindDecimal, d: d}
		}
	case isIntType(databaseTypeName):
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Value{kind: KindInt, i: i}
		}
	}
	return Value{kind: KindString, s: s}
}

// NewValue converts a value returned by a driver into a Value, the
// database type name is used to recognise decimals delivered as
// text or integers
func NewValue(item any, databaseTypeName string) Value {
	switch v := item.(type) {
	default:
		return Value{kind: KindString, s: fmt.Sprint(v)}
	case nil:
		return Value{kind: KindNull}
	case int64:
		if isDecimalType(databaseTypeName) {
			return Value{kind: KindDecimal, d: decimal.NewFromInt(v)}
		}
		return Value{kind: KindInt, i: v}
	case int32:
		return Value{kind: KindInt, i: int64(v)}
	case int:
		return Value{kind: KindInt, i: int64(v)}
	case float64:
		return Value{kind: KindDecimal, d: decimal.NewFromFloat(v)}
	case float32:
		return Value{kind: KindDecimal, d: decimal.NewFromFloat32(v)}
	case bool:
		return Value{kind: KindBool, b: v}
	case time.Time:
		return Value{kind: KindDate, t: v}
	case decimal.Decimal:
		return Value{kind: KindDecimal, d: v}
	case string:
		return newValueFromString(v, databaseTypeName)
	case []byte:
		if isBinaryType(databaseTypeName) {
			byts := make([]byte, len(v))
			copy(byts, v)
			return Value{kind: KindBytes, bytes: byts}
		}
		return newValueFromString(string(v), databaseTypeName)
	}
}

// Row is a single result row without a fixed record shape, columns are
// kept in the order they were returned
type Row struct {
	columns []string
	values  map[string]Value
}

func (r Row) Columns() []string {
	return r.columns
}

func (r Row) Len() int {
	return len(r.columns)
}

// Get returns the value of column, looked up exactly and then case
// insensitively; unknown columns are null
func (r Row) Get(column string) Value {
	if v, ok := r.values[column]; ok {
		return v
	}
	for _, key := range r.columns {
		if strings.EqualFold(key, column) {
			return r.values[key]
		}
	}
	return Value{kind: KindNull}
}

// Map returns the row as column -> go value
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for key, v := range r.values {
		m[key] = v.Any()
	}
	return m
}

// readDynamicRows reads at most limit rows (all if limit <= 0), when a column
// name repeats (SELECT * over a join) the first occurrence wins
func readDynamicRows(rows *sql.Rows, limit int) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	result := []Row{}
	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range columns {
		valuePtrs[i] = &values[i]
	}
	for (limit <= 0 || len(result) < limit) && rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}
		row := Row{
			columns: columns,
			values:  make(map[string]Value, len(columns)),
		}
		for i, column := range columns {
			if _, ok := row.values[column]; ok {
				continue
			}
			row.values[column] = NewValue(values[i], columnTypes[i].DatabaseTypeName())
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
