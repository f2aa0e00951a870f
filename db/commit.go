package db

import (
	"context"
	"database/sql"
	"sync"

	"gorm.io/gorm"
)

// commitPool wraps the connection pool so every transaction GORM opens,
// explicit or the default one around a write, is a *commitTx.
type commitPool struct {
	gorm.ConnPool
	sqlDB *sql.DB
}

func (p *commitPool) BeginTx(ctx context.Context, opts *sql.TxOptions) (gorm.ConnPool, error) {
	tx, err := p.sqlDB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &commitTx{Tx: tx, sqlDB: p.sqlDB}, nil
}

func (p *commitPool) GetDBConn() (*sql.DB, error) {
	return p.sqlDB, nil
}

// commitTx runs registered hooks once the transaction has committed.
type commitTx struct {
	*sql.Tx
	sqlDB *sql.DB

	mu    sync.Mutex
	keys  []string
	hooks map[string]func()
}

func (t *commitTx) GetDBConn() (*sql.DB, error) {
	return t.sqlDB, nil
}

func (t *commitTx) add(key string, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hooks == nil {
		t.hooks = make(map[string]func())
	}
	if _, ok := t.hooks[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.hooks[key] = fn
}

func (t *commitTx) take() []func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fns := make([]func(), 0, len(t.keys))
	for _, k := range t.keys {
		fns = append(fns, t.hooks[k])
	}
	t.keys, t.hooks = nil, nil
	return fns
}

func (t *commitTx) Commit() error {
	if err := t.Tx.Commit(); err != nil {
		t.take()
		return err
	}
	for _, fn := range t.take() {
		fn()
	}
	return nil
}

func (t *commitTx) Rollback() error {
	t.take()
	return t.Tx.Rollback()
}

// enableCommitHooks installs commitPool on gdb. Open calls it for every
// connection, so AfterCommit always sees transactions as *commitTx.
func enableCommitHooks(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	pool := &commitPool{ConnPool: gdb.ConnPool, sqlDB: sqlDB}
	gdb.ConnPool = pool
	gdb.Statement.ConnPool = pool
	return nil
}

// AfterCommit runs fn once the transaction tx belongs to has committed,
// or right away when tx is not inside a transaction. Hooks sharing a key
// run once per transaction. A rollback discards them.
func AfterCommit(tx *gorm.DB, key string, fn func()) {
	if ct, ok := tx.Statement.ConnPool.(*commitTx); ok {
		ct.add(key, fn)
		return
	}
	fn()
}
