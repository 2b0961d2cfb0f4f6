package envoy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	envoy "github.com/loafoe/envoy-influx"
)

func TestDiscoverCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	addr, err := envoy.Discover(ctx)
	assert.NoError(t, err)
	assert.Empty(t, addr)
}

func TestDiscoverDeadlinePassed(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	addr, err := envoy.Discover(ctx)
	assert.NoError(t, err)
	assert.Empty(t, addr)
}
