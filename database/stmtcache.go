package database

import (
	"database/sql"
	"sync"
)

// StmtCache keeps one prepared statement per query string.
type StmtCache struct {
	db *sql.DB
	m  sync.Map
}

func NewStmtCache(db *sql.DB) *StmtCache {
	return &StmtCache{db: db}
}

func (sc *StmtCache) Prepare(query string) (*sql.Stmt, error) {
	if cached, ok := sc.m.Load(query); ok {
		return cached.(*sql.Stmt), nil
	}
	stmt, err := sc.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	// another goroutine may have prepared the same query meanwhile
	if actual, loaded := sc.m.LoadOrStore(query, stmt); loaded {
		_ = stmt.Close()
		return actual.(*sql.Stmt), nil
	}
	return stmt, nil
}

func (sc *StmtCache) Exec(query string, args ...interface{}) (sql.Result, error) {
	stmt, err := sc.Prepare(query)
	if err != nil {
		return nil, err
	}
	return stmt.Exec(args...)
}

func (sc *StmtCache) Query(query string, args ...interface{}) (*sql.Rows, error) {
	stmt, err := sc.Prepare(query)
	if err != nil {
		return nil, err
	}
	return stmt.Query(args...)
}

// Clear closes and forgets every cached statement.
func (sc *StmtCache) Clear() {
	sc.m.Range(func(k, v interface{}) bool {
		_ = v.(*sql.Stmt).Close()
		sc.m.Delete(k)
		return true
	})
}
