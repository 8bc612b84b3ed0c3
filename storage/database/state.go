package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/presence/core/attendance"
)

var nowFunc = time.Now // mockable

type statePersister struct {
	db  *sqlx.DB
	key string
}

var _ attendance.Persister = (*statePersister)(nil) // interface compliance check

// NewStatePersister stores the attendance State as a single JSON row of app_state.
func NewStatePersister(db *sqlx.DB) attendance.Persister {
	return &statePersister{db: db, key: attendance.StorageKey}
}

func (p *statePersister) Load(ctx context.Context) (attendance.State, error) {
	var payload string
	q := p.db.Rebind(`SELECT payload FROM app_state WHERE state_key = ?`)
	if err := p.db.GetContext(ctx, &payload, q, p.key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.State{}, nil
		}
		return attendance.State{}, errors.Wrap(err, "selecting app_state")
	}
	return attendance.UnmarshalState([]byte(payload))
}

func (p *statePersister) Save(ctx context.Context, state attendance.State) error {
	data, err := state.Marshal()
	if err != nil {
		return err
	}
	q := p.db.Rebind(`
INSERT INTO app_state (state_key, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT (state_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`)
	if _, err = p.db.ExecContext(ctx, q, p.key, string(data), nowFunc().UTC()); err != nil {
		return errors.Wrap(err, "upserting app_state")
	}
	return nil
}
