package session

import (
	"fmt"

	"github.com/gofiber/storage/redis/v3"
)

// NewRedis connects to the Redis instance at url for shared session storage.
// The driver panics when the server is unreachable; that is reported as an
// error instead.
func NewRedis(url string) (storage *redis.Storage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to connect to redis: %v", r)
		}
	}()
	return redis.New(redis.Config{URL: url}), nil
}
