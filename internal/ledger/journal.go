// Package ledger runs ledger operations one at a time, each atomically.
//
// A Runner opens a transaction scope carried in the context. Stores register an
// undo function for every in-memory mutation with OnRollback; SQL stores pick up
// the open *sql.Tx through pkg/platform/tx. If the operation returns an error the
// undo functions run in reverse order and the SQL transaction is rolled back, so
// callers observe all effects or none. Nested RunInTx calls join the outer scope.
package ledger

import (
	"context"
)

type journalKey struct{}

type journal struct {
	undo        []func()
	afterCommit []func()
}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(journalKey{}).(*journal)
	return j
}

func withJournal(ctx context.Context, j *journal) context.Context {
	return context.WithValue(ctx, journalKey{}, j)
}

// InTx reports whether ctx is inside a ledger transaction.
func InTx(ctx context.Context) bool {
	return journalFrom(ctx) != nil
}

// OnRollback registers fn to run if the enclosing transaction fails.
// Outside a transaction the mutation is already final and fn is dropped.
func OnRollback(ctx context.Context, fn func()) {
	if j := journalFrom(ctx); j != nil {
		j.undo = append(j.undo, fn)
	}
}

// AfterCommit registers fn to run once the enclosing transaction has committed.
// Outside a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	if j := journalFrom(ctx); j != nil {
		j.afterCommit = append(j.afterCommit, fn)
		return
	}
	fn()
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
	j.afterCommit = nil
}

func (j *journal) commit() {
	hooks := j.afterCommit
	j.undo = nil
	j.afterCommit = nil
	for _, fn := range hooks {
		fn()
	}
}
