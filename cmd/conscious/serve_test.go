package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Mukesh1q2/Brahm-sub001/internal/config"
)

func TestServe_StopsOnCancel(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })

	cfg = config.Default()
	cfg.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- serve(ctx, true) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
}
