package dummydb

import (
	"context"

	"github.com/trezcool/presence/core/attendance"
)

type statePersister struct {
	db  *stateTable
	key string
}

var _ attendance.Persister = (*statePersister)(nil) // interface compliance check

func NewStatePersister(db *DB) attendance.Persister {
	return &statePersister{db: db.state, key: attendance.StorageKey}
}

func (p *statePersister) Load(ctx context.Context) (attendance.State, error) {
	if err := ctx.Err(); err != nil {
		return attendance.State{}, err
	}
	p.db.RLock()
	defer p.db.RUnlock()
	return attendance.UnmarshalState(p.db.table[p.key])
}

// Save stores the encoded State so later mutations of the caller's slices never leak in.
func (p *statePersister) Save(ctx context.Context, state attendance.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := state.Marshal()
	if err != nil {
		return err
	}

	p.db.Lock()
	defer p.db.Unlock()
	p.db.table[p.key] = data
	return nil
}
