package opensearch

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2"
)

// New creates a new OpenSearch client and verifies the cluster answers.
func New(ctx context.Context, cfg Config) (*opensearch.Client, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	if err := Healthcheck(client)(ctx); err != nil {
		return nil, err
	}

	return client, nil
}

// NewClient creates a client without contacting the cluster.
func NewClient(cfg Config) (*opensearch.Client, error) {
	ocfg := opensearch.Config{
		Addresses:    cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		MaxRetries:   cfg.MaxRetries,
		DisableRetry: cfg.DisableRetry,
	}
	if cfg.InsecureSkipVerify {
		ocfg.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // self-signed node certificates
		}
	}
	client, err := opensearch.NewClient(ocfg)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	return client, nil
}
