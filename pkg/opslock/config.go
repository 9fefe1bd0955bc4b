package opslock

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`                                 // ConnectionURL in the format "redis://:password@localhost:6379/0". Empty selects the in-memory locker.
	Key            string        `env:"LOCK_KEY" envDefault:"opensearch:ops-lock"` // Key is the redis key guarding the operation.
	TTL            time.Duration `env:"LOCK_TTL" envDefault:"10m"`                 // TTL bounds how long a crashed holder keeps the lock.
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`       // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`      // RetryInterval is the delay between connection attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`    // ConnectTimeout bounds the whole connection phase.
}
