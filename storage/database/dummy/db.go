package dummydb

import (
	"sync"
)

type (
	// DB keeps encoded records in memory. Nothing survives the process.
	DB struct {
		state *stateTable
	}

	stateTable struct {
		sync.RWMutex
		table map[string][]byte
	}
)

func Open() (*DB, error) {
	db := &DB{
		state: &stateTable{table: make(map[string][]byte)},
	}
	return db, nil
}

func (db *DB) Close() error { return nil }
