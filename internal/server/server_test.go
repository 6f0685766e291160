package server

import (
	"context"
	"testing"
	"time"

	"shop-checkout-service/internal/config"

	"github.com/stretchr/testify/require"
)

func TestShutdownHonorsContext(t *testing.T) {
	s := NewServer(&config.JWT{Secret: "test-secret", ExpiryHours: 1}, nil, nil, nil, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// no listener yet, so the drain completes immediately
	require.NoError(t, s.Shutdown(ctx))
}
