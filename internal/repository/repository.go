// Package repository implements the persistence layer over the shared SQLite
// connection. Every operation takes the store's mutex for its full duration,
// including multi-statement loops; there is no finer-grained locking and no
// read/write distinction.
package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Store owns the database handle and the single process-wide lock guarding it.
type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewStore wraps an opened database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the handle for schema management and tests.
func (s *Store) DB() *gorm.DB { return s.db }
