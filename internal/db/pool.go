package db

import (
	"database/sql"
	"sync"
)

// OpenFunc creates a connection pool. Open bound to a config is the
// production implementation; tests substitute sqlmock.
type OpenFunc func() (*sql.DB, error)

// SharedPool owns the single process-wide pool used by the statistics
// endpoint. The pool is created on first use and then reused until Close.
//
// MaxOpenConns bounds physical connections. Callers that find every
// connection busy queue inside database/sql with no depth limit and no
// timeout beyond their own context.
type SharedPool struct {
	open     OpenFunc
	maxConns int

	// OnOpen, when set, runs once right after the pool is created.
	OnOpen func(*sql.DB)

	mu sync.Mutex
	db *sql.DB
}

func NewSharedPool(open OpenFunc, maxConns int) *SharedPool {
	return &SharedPool{open: open, maxConns: maxConns}
}

// Get returns the shared pool, creating it if this is the first call.
// A failed creation is not remembered, so the next caller tries again.
func (p *SharedPool) Get() (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}

	db, err := p.open()
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(p.maxConns)
	db.SetMaxIdleConns(p.maxConns)

	if p.OnOpen != nil {
		p.OnOpen(db)
	}
	p.db = db
	return db, nil
}

// Close releases the pool if it was ever created. Only used at shutdown.
func (p *SharedPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
