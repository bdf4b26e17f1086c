package sql

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/antonio-alexander/go-blog-sqlx/internal/utilities"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"github.com/pkg/errors"
)

// Connection is a scoped database session, it must be closed once the
// caller is done with it (typically via defer)
type Connection struct {
	sync.Mutex
	db           *sqlx.DB
	conn         *sqlx.Conn
	driver       string
	mapper       *reflectx.Mapper
	queryTimeout time.Duration
	closed       bool
	utilities.Logger
}

func (c *Connection) Driver() string {
	return c.driver
}

// Close releases the session and the handle it was opened from, it's safe
// to call more than once
func (c *Connection) Close() error {
	c.Lock()
	defer c.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	errConn, errDb := c.conn.Close(), c.db.Close()
	if errConn != nil {
		return errConn
	}
	return errDb
}

func (c *Connection) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.queryTimeout)
}

// bind converts named parameters (:name) into the driver's bindvars using
// the fields of arg (a map[string]any or a struct with db tags)
func (c *Connection) bind(query string, arg any) (string, []any, error) {
	if arg == nil {
		return c.conn.Rebind(query), nil, nil
	}
	query, args, err := sqlx.Named(query, arg)
	if err != nil {
		return "", nil, errors.Wrap(err, "unable to bind named parameters")
	}
	return c.conn.Rebind(query), args, nil
}

func (c *Connection) query(ctx context.Context, query string, arg any) (*sql.Rows, error) {
	query, args, err := c.bind(query, arg)
	if err != nil {
		return nil, err
	}
	c.Trace(ctx, "query: %s %v", query, args)
	return c.conn.QueryContext(ctx, query, args...)
}

func (c *Connection) exec(ctx context.Context, query string, arg any) (sql.Result, error) {
	query, args, err := c.bind(query, arg)
	if err != nil {
		return nil, err
	}
	c.Trace(ctx, "exec: %s %v", query, args)
	return c.conn.ExecContext(ctx, query, args...)
}
