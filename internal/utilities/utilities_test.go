package utilities_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/antonio-alexander/go-blog-sqlx/internal"
	"github.com/antonio-alexander/go-blog-sqlx/internal/utilities"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := utilities.NewLogger(buffer)

	//nothing is logged until configured
	logger.Error(context.TODO(), "hidden")
	assert.Empty(t, buffer.String())

	err := logger.Configure(map[string]string{"LOG_LEVEL": "debug"})
	assert.Nil(t, err)
	ctx := internal.CtxWithCorrelationId(context.TODO(), "abc")
	logger.Debug(ctx, "shown %d", 1)
	logger.Trace(ctx, "hidden")
	assert.Contains(t, buffer.String(), "[debug] (abc) shown 1")
	assert.NotContains(t, buffer.String(), "hidden")
}

func TestTimers(t *testing.T) {
	timers := utilities.NewTimers()
	index := timers.Start("query")
	assert.Equal(t, 0, index)
	assert.True(t, timers.Stop("query", index) >= 0)
	assert.EqualValues(t, -1, timers.Stop("query", 5))
	assert.EqualValues(t, -1, timers.Stop("missing", 0))

	_ = timers.Start("query") //never stopped
	readAll := timers.ReadAll()
	assert.Contains(t, readAll.Totals, "query")
	assert.Equal(t, readAll.Totals["query"], readAll.Averages["query"])

	timers.Clear()
	assert.Empty(t, timers.ReadAll().Totals)
}
