package exec

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
}

func TestLocalRunner_Capture(t *testing.T) {
	skipOnWindows(t)
	r := NewLocalRunner()

	stdout, stderr, code, err := r.Capture(context.Background(), "/bin/sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "out\n", string(stdout))
	assert.Equal(t, "err\n", string(stderr))
}

func TestLocalRunner_NonZeroExit(t *testing.T) {
	skipOnWindows(t)
	r := NewLocalRunner()

	_, stderr, code, err := r.Capture(context.Background(), "/bin/sh", "-c", "echo nope >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, "nope\n", string(stderr))
}

func TestLocalRunner_MissingProgram(t *testing.T) {
	r := NewLocalRunner()

	_, _, code, err := r.Capture(context.Background(), "definitely-not-a-meshtastic-tool")
	require.NoError(t, err)
	assert.Equal(t, 127, code)
}

func TestLocalRunner_Timeout(t *testing.T) {
	skipOnWindows(t)
	r := NewLocalRunner()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, _, err := r.Capture(ctx, "/bin/sh", "-c", "sleep 5")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTransport))
}
