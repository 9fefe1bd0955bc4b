// Package opensearch provides a lightweight wrapper around the official OpenSearch
// Go client adding type-safe configuration, cluster health checking, and a
// cluster state reader used by the operator.
//
// The package builds on top of github.com/opensearch-project/opensearch-go/v2,
// which is safe for concurrent use. Public touch points:
//
//   - Config – connection settings populated from environment variables via
//     pkg/config.
//
//   - New – constructs a *opensearch.Client and performs an initial
//     Healthcheck ensuring the cluster is reachable. NewClient skips the check.
//
//   - Healthcheck – returns a function suitable for readiness probes.
//
//   - ClusterClient – implements clusterstate.ShardSource over _cat/shards and
//     clusterstate.HealthSource over _cluster/health.
//
// # Usage
//
//	client, err := opensearch.New(ctx, opensearch.Config{
//	    Addresses: []string{"https://10.0.0.1:9200"},
//	    Username:  "admin",
//	    Password:  "admin",
//	})
//	if err != nil {
//	    // use errors.Is(err, opensearch.ErrConnectionFailed)
//	}
//
//	cc := opensearch.NewClusterClient(client, 10*time.Second)
//	busy, err := clusterstate.BusyShardsByUnit(ctx, cc)
//
// # Error Handling
//
// Transport errors are returned as produced by the underlying client. Non-2xx
// answers are reported as ErrUnexpectedStatus and malformed bodies as
// ErrDecodeResponse. The client does not retry beyond its own MaxRetries
// setting; retry policy belongs to the caller.
package opensearch
