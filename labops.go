/*
Copyright 2025 Carelane Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package labops

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/carelane/labops/cache"
	"github.com/carelane/labops/config"
	"github.com/carelane/labops/database"
	redlock "github.com/carelane/labops/internal/lock"
	redis_db "github.com/carelane/labops/internal/redis-db"
	"github.com/carelane/labops/model"
)

var tracer = otel.Tracer("labops.core")

// Labops is the service-request lifecycle and payout derivation core. It is
// the sole writer of the request, result and payout collections.
type Labops struct {
	datasource database.IDataSource
	redis      redis.UniversalClient
	cache      cache.Cache
}

// NewLabops initializes a new instance of Labops with the provided datasource.
// It fetches the configuration and initializes the Redis client used for
// collection locks and the rules cache.
//
// Parameters:
// - db database.IDataSource: The datasource for collection operations.
//
// Returns:
// - *Labops: A pointer to the newly created Labops instance.
// - error: An error if any of the initialization steps fail.
func NewLabops(db database.IDataSource) (*Labops, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)})
	if err != nil {
		return nil, err
	}
	ruleCache, err := cache.NewCache()
	if err != nil {
		return nil, err
	}
	return &Labops{datasource: db, redis: redisClient.Client(), cache: ruleCache}, nil
}

// withCollectionLock serializes a load-mutate-save cycle on one collection.
// The engine assumes a single logical writer; the lock is what enforces that
// when several server processes share a store. Instances built without a
// Redis client (unit tests) run fn unlocked.
func (l *Labops) withCollectionLock(ctx context.Context, collectionKey string, fn func() error) error {
	if l.redis == nil {
		return fn()
	}
	locker := redlock.NewLocker(l.redis, collectionKey+".lock", model.GenerateUUIDWithSuffix("loc"))
	if err := locker.WaitLock(ctx, 30*time.Second, 10*time.Second); err != nil {
		return err
	}
	defer func() {
		_ = locker.Unlock(ctx)
	}()
	return fn()
}
