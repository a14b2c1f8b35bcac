package logging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetachContext_SurvivesCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	detached := DetachContext(parent)
	cancel()

	assert.Error(t, parent.Err())
	assert.NoError(t, detached.Err())
}

func TestDetachContext_PreservesValues(t *testing.T) {
	type key string
	parent := context.WithValue(context.Background(), key("run"), "r-1")
	assert.Equal(t, "r-1", DetachContext(parent).Value(key("run")))
}

func TestDetachContextWithTimeout(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())
	detached, cancel := DetachContextWithTimeout(parent, 50*time.Millisecond)
	defer cancel()
	parentCancel()

	require.NoError(t, detached.Err(), "parent cancellation must not reach the write")
	deadline, ok := detached.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 20*time.Millisecond)

	<-detached.Done()
	assert.ErrorIs(t, detached.Err(), context.DeadlineExceeded)
}
