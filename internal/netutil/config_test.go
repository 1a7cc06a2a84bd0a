//go:build linux

package netutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListenReusePort(t *testing.T) {
	cfg := Config{ReusePort: true}

	first, err := cfg.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer first.Close()

	second, err := cfg.Listen(context.Background(), "tcp", first.Addr().String())
	require.NoError(t, err)
	second.Close()
}
