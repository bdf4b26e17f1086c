package sql

import (
	"context"
	"database/sql"
	"sync"
)

// GridReader reads the result sets of a statement batch in the order the
// statements were declared, it must be closed once the caller is done
// with it
type GridReader struct {
	sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
	conn       *Connection
	rows       *sql.Rows
	arg        any
	statements []string
	batched    bool
	index      int
	closed     bool
}

// QueryMultiple executes a batch of statements; drivers that support
// multiple result sets get the whole batch as a single command, otherwise
// each statement is executed on the same connection as its result set
// is read
func QueryMultiple(ctx context.Context, c *Connection, query string, arg any) (*GridReader, error) {
	ctx, cancel := c.withTimeout(ctx)
	g := &GridReader{
		ctx:    ctx,
		cancel: cancel,
		conn:   c,
		arg:    arg,
	}
	if !batchDrivers[c.driver] {
		g.statements = splitStatements(query)
		return g, nil
	}
	rows, err := c.query(ctx, query, arg)
	if err != nil {
		cancel()
		return nil, err
	}
	g.rows, g.batched = rows, true
	return g, nil
}

func (g *GridReader) next() (*sql.Rows, error) {
	if g.closed {
		return nil, ErrGridClosed
	}
	if g.batched {
		if g.index > 0 && !g.rows.NextResultSet() {
			if err := g.rows.Err(); err != nil {
				return nil, err
			}
			return nil, ErrGridConsumed
		}
		g.index++
		return g.rows, nil
	}
	if g.index >= len(g.statements) {
		return nil, ErrGridConsumed
	}
	rows, err := g.conn.query(g.ctx, g.statements[g.index], g.arg)
	if err != nil {
		return nil, err
	}
	g.rows = rows
	g.index++
	return rows, nil
}

// release closes the cursor of a statement executed on its own, a batch
// cursor stays open until the next grid or Close
func (g *GridReader) release() {
	if g.batched || g.rows == nil {
		return
	}
	_ = g.rows.Close()
	g.rows = nil
}

// ReadGrid maps every row of the next result set onto T
func ReadGrid[T any](g *GridReader) ([]T, error) {
	g.Lock()
	defer g.Unlock()

	rows, err := g.next()
	if err != nil {
		return nil, err
	}
	defer g.release()
	return readRows[T](rows, g.conn.mapper, 0)
}

// ReadGridFirstOrDefault maps the first row of the next result set onto T,
// nil is returned if the result set is empty
func ReadGridFirstOrDefault[T any](g *GridReader) (*T, error) {
	g.Lock()
	defer g.Unlock()

	rows, err := g.next()
	if err != nil {
		return nil, err
	}
	defer g.release()
	items, err := readRows[T](rows, g.conn.mapper, 1)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

// ReadDynamic reads every row of the next result set without a fixed
// record shape
func (g *GridReader) ReadDynamic() ([]Row, error) {
	g.Lock()
	defer g.Unlock()

	rows, err := g.next()
	if err != nil {
		return nil, err
	}
	defer g.release()
	return readDynamicRows(rows, 0)
}

// Close releases the cursor, it's safe to call more than once
func (g *GridReader) Close() error {
	g.Lock()
	defer g.Unlock()

	if g.closed {
		return nil
	}
	g.closed = true
	defer g.cancel()
	if g.rows == nil {
		return nil
	}
	err := g.rows.Close()
	g.rows = nil
	return err
}
