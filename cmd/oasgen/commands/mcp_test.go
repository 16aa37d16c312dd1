package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubMCPServer(t *testing.T, fn func(context.Context) error) {
	t.Helper()
	old := runMCPServer
	runMCPServer = fn
	t.Cleanup(func() { runMCPServer = old })
}

func TestHandleMCP(t *testing.T) {
	var ran bool
	stubMCPServer(t, func(ctx context.Context) error {
		ran = true
		return context.Canceled
	})
	assert.NoError(t, HandleMCP(context.Background(), nil))
	assert.True(t, ran)

	boom := errors.New("transport closed")
	stubMCPServer(t, func(context.Context) error { return boom })
	assert.ErrorIs(t, HandleMCP(context.Background(), nil), boom)

	assert.Error(t, HandleMCP(context.Background(), []string{"-port", "8080"}))
}
