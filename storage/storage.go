// Package storage picks the attendance Persister for the configured engine.
package storage

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/presence/core"
	"github.com/trezcool/presence/core/attendance"
	"github.com/trezcool/presence/storage/database"
	dummydb "github.com/trezcool/presence/storage/database/dummy"
	redisdb "github.com/trezcool/presence/storage/redis"
)

// Open returns the Persister for conf.Storage.Engine and the connection to close when done.
func Open(ctx context.Context, conf *core.Config) (attendance.Persister, io.Closer, error) {
	switch conf.Storage.Engine {
	case core.EngineMemory:
		db, err := dummydb.Open()
		if err != nil {
			return nil, nil, err
		}
		return dummydb.NewStatePersister(db), db, nil

	case core.EngineSQLite, core.EnginePostgres:
		db, err := database.Open(conf)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "opening %s storage", conf.Storage.Engine)
		}
		return database.NewStatePersister(db), db, nil

	case core.EngineRedis:
		client, err := redisdb.Open(ctx, conf)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening redis storage")
		}
		return redisdb.NewStatePersister(client), client, nil
	}
	return nil, nil, errors.Errorf("unknown storage engine %q", conf.Storage.Engine)
}
