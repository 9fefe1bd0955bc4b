package reconcile_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/opensearch-operator/pkg/reconcile"
)

// MockAnnouncer is a mock implementation of reconcile.Announcer.
type MockAnnouncer struct {
	mock.Mock
}

func (m *MockAnnouncer) Announce(ctx context.Context, change reconcile.Change) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}
