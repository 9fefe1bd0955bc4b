package opensearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/opensearch-project/opensearch-go/v2"
)

// Healthcheck returns a function suitable for readiness probes.
// It calls the root info endpoint and fails on transport errors and non-2xx answers.
func Healthcheck(client *opensearch.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		resp, err := client.Info(
			client.Info.WithContext(ctx),
			client.Info.WithErrorTrace(),
		)
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		defer resp.Body.Close()

		if resp.IsError() {
			return errors.Join(ErrHealthcheckFailed, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
		}
		return nil
	}
}
