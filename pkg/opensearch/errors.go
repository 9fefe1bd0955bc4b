package opensearch

import "errors"

var (
	// ErrConnectionFailed indicates the OpenSearch client could not be created
	// due to configuration or network issues. Use errors.Is() to check.
	ErrConnectionFailed = errors.New("opensearch connection failed")

	// ErrHealthcheckFailed indicates the cluster is unreachable.
	// Returned by both New() during initialization and Healthcheck() during monitoring.
	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")

	// ErrUnexpectedStatus is returned when the cluster answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("opensearch returned an unexpected status")

	// ErrDecodeResponse is returned when a response body cannot be decoded.
	ErrDecodeResponse = errors.New("failed to decode opensearch response")
)
