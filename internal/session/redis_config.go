package session

import (
	"crypto/tls"
	"fmt"

	"github.com/go-redis/redis"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const redisEnvconfigPrefix = "REDIS"

// redisConfig represents common configuration options for a Redis connection
type redisConfig struct {
	Host      string `envconfig:"HOST" required:"true"`
	Port      int    `envconfig:"PORT" default:"6379"`
	Password  string `envconfig:"PASSWORD"`
	DB        int    `envconfig:"DB"`
	EnableTLS bool   `envconfig:"ENABLE_TLS"`
	Prefix    string `envconfig:"PREFIX"`
}

// NewRedisStoreFromEnvironment returns a Redis-backed Store whose connection
// is specified by environment variables.
func NewRedisStoreFromEnvironment() (Store, error) {
	c := redisConfig{}
	err := envconfig.Process(redisEnvconfigPrefix, &c)
	if err != nil {
		return nil, errors.Wrap(
			err,
			"error getting redis configuration from environment",
		)
	}

	return NewRedisStore(redis.NewClient(c.options()), c.Prefix), nil
}

// options returns connection options for the configuration. Failed commands
// are not retried.
func (c redisConfig) options() *redis.Options {
	redisOpts := &redis.Options{
		Addr:       fmt.Sprintf("%s:%d", c.Host, c.Port),
		Password:   c.Password,
		DB:         c.DB,
		MaxRetries: 0,
	}
	if c.EnableTLS {
		redisOpts.TLSConfig = &tls.Config{
			ServerName: c.Host,
		}
	}
	return redisOpts
}
