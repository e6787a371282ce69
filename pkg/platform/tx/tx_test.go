package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	_, ok := From(context.Background())
	assert.False(t, ok)

	ctx := WithTx(context.Background(), nil)
	_, ok = From(ctx)
	assert.False(t, ok, "nil transactions are not stored")

	tx := &sql.Tx{}
	got, ok := From(WithTx(context.Background(), tx))
	assert.True(t, ok)
	assert.Same(t, tx, got)
}

func TestConnFallsBackToDB(t *testing.T) {
	db := &sql.DB{}
	assert.Same(t, db, Conn(context.Background(), db))

	tx := &sql.Tx{}
	assert.Same(t, tx, Conn(WithTx(context.Background(), tx), db))
}
