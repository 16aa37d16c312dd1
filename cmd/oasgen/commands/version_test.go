package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleVersion(t *testing.T) {
	out, _ := captureStreams(t, "")
	require.NoError(t, HandleVersion(nil))
	assert.Equal(t, "oasgen vdev\n", out.String())

	out.Reset()
	require.NoError(t, HandleVersion([]string{"-v"}))
	assert.Contains(t, out.String(), "Commit: unknown\n")
	assert.Contains(t, out.String(), "Go Version: go")
}
