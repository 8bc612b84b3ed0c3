package redisdb

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/trezcool/presence/core"
	"github.com/trezcool/presence/core/attendance"
)

// Open connects to the configured Redis server and checks it answers.
func Open(ctx context.Context, conf *core.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "pinging redis at %s", conf.Redis.Address)
	}
	return client, nil
}

type statePersister struct {
	client *redis.Client
	key    string
}

var _ attendance.Persister = (*statePersister)(nil) // interface compliance check

// NewStatePersister keeps the encoded State in a single string key.
func NewStatePersister(client *redis.Client) attendance.Persister {
	return &statePersister{client: client, key: attendance.StorageKey}
}

func (p *statePersister) Load(ctx context.Context) (attendance.State, error) {
	data, err := p.client.Get(ctx, p.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return attendance.State{}, nil
		}
		return attendance.State{}, errors.Wrapf(err, "getting %s", p.key)
	}
	return attendance.UnmarshalState(data)
}

func (p *statePersister) Save(ctx context.Context, state attendance.State) error {
	data, err := state.Marshal()
	if err != nil {
		return err
	}
	if err = p.client.Set(ctx, p.key, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "setting %s", p.key)
	}
	return nil
}
