package opensearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/opensearch-operator/pkg/clusterstate"
)

// ClusterClient reads shard allocation and health from a live cluster.
// It implements clusterstate.ShardSource and clusterstate.HealthSource.
type ClusterClient struct {
	client  *opensearch.Client
	timeout time.Duration
}

// NewClusterClient wraps client. A zero timeout leaves request deadlines to the caller's context.
func NewClusterClient(client *opensearch.Client, timeout time.Duration) *ClusterClient {
	return &ClusterClient{client: client, timeout: timeout}
}

// Shards returns one record per shard copy from _cat/shards.
func (c *ClusterClient) Shards(ctx context.Context) ([]clusterstate.Shard, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	cat := c.client.Cat
	resp, err := cat.Shards(
		cat.Shards.WithContext(ctx),
		cat.Shards.WithFormat("json"),
		cat.Shards.WithH("index", "state", "node"),
	)
	if err != nil {
		return nil, err
	}

	var shards []clusterstate.Shard
	if err := decode(resp, &shards); err != nil {
		return nil, err
	}
	return shards, nil
}

// Health returns the result of _cluster/health.
func (c *ClusterClient) Health(ctx context.Context) (clusterstate.Health, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	cluster := c.client.Cluster
	resp, err := cluster.Health(cluster.Health.WithContext(ctx))
	if err != nil {
		return clusterstate.Health{}, err
	}

	var h clusterstate.Health
	if err := decode(resp, &h); err != nil {
		return clusterstate.Health{}, err
	}
	return h, nil
}

func (c *ClusterClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func decode(resp *opensearchapi.Response, v any) error {
	defer resp.Body.Close()

	if resp.IsError() {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Join(ErrDecodeResponse, err)
	}
	return nil
}
