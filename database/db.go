package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/carelane/labops/config"
	redis_db "github.com/carelane/labops/internal/redis-db"
)

// Collection keys in the key-value store. Each key holds one whole collection
// serialized as a JSON array.
const (
	KeyRequests      = "labops:requests"
	KeyResults       = "labops:results"
	KeyPayouts       = "labops:payouts"
	KeyPayoutRules   = "labops:payout_rules"
	KeyConsultations = "labops:consultations"
	KeyPrescriptions = "labops:prescriptions"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

// Datasource is the Redis-backed implementation of IDataSource. Collections
// are stored as whole JSON documents under fixed keys.
type Datasource struct {
	Client redis.UniversalClient
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		client, errConn := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)})
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Client: client.Client()}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

// NewDataSourceFromClient wraps an existing Redis client. Used by tests and by
// callers that manage their own connection.
func NewDataSourceFromClient(client redis.UniversalClient) *Datasource {
	return &Datasource{Client: client}
}

// loadCollection reads a whole collection key into dest. A missing key is an
// empty collection, not an error.
func (d *Datasource) loadCollection(ctx context.Context, key string, dest interface{}) error {
	raw, err := d.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading collection %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decoding collection %s: %w", key, err)
	}
	return nil
}

// saveCollection writes a whole collection back under its key.
func (d *Datasource) saveCollection(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding collection %s: %w", key, err)
	}
	if err := d.Client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("saving collection %s: %w", key, err)
	}
	return nil
}
