package opensearch

import "time"

// Config holds OpenSearch client connection parameters with environment variable mapping.
type Config struct {
	Addresses          []string      `env:"OPENSEARCH_ADDRESSES,required" envSeparator:","`
	Username           string        `env:"OPENSEARCH_USERNAME"`
	Password           string        `env:"OPENSEARCH_PASSWORD"`
	MaxRetries         int           `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`
	DisableRetry       bool          `env:"OPENSEARCH_DISABLE_RETRY" envDefault:"false"`
	InsecureSkipVerify bool          `env:"OPENSEARCH_INSECURE_SKIP_VERIFY" envDefault:"false"`
	RequestTimeout     time.Duration `env:"OPENSEARCH_REQUEST_TIMEOUT" envDefault:"10s"`
}
