package exec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCommandNotFound(t *testing.T) {
	tests := []struct {
		name      string
		stderr    string
		exitCode  int
		wantCmd   string
		wantFound bool
	}{
		{"bash", "bash: meshtastic: command not found", 127, "meshtastic", true},
		{"zsh", "zsh: command not found: meshtastic", 127, "meshtastic", true},
		{"sh", "sh: 1: meshtastic: not found", 127, "meshtastic", true},
		{"env shebang", "env: python3: No such file or directory", 127, "python3", true},
		{"127 without pattern", "", 127, "", true},
		{"ordinary failure", "Error: Timed out waiting for connection", 1, "", false},
		{"success", "", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, found := IsCommandNotFound(tt.stderr, tt.exitCode)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantCmd, cmd)
		})
	}
}

func TestHandleExecError(t *testing.T) {
	err := HandleExecError("meshtastic", "", 127)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTransport))
	assert.Contains(t, err.Error(), "'meshtastic' not found")
	assert.Contains(t, err.Error(), "pip3 install")

	assert.NoError(t, HandleExecError("meshtastic", "boom", 1))
}

func TestFindBinary(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "meshtastic")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755))

	t.Run("explicit path", func(t *testing.T) {
		got, ok := FindBinary(bin)
		assert.True(t, ok)
		assert.Equal(t, bin, got)
	})

	t.Run("on PATH", func(t *testing.T) {
		t.Setenv("PATH", dir)
		got, ok := FindBinary("meshtastic")
		assert.True(t, ok)
		assert.Equal(t, bin, got)
	})

	t.Run("not executable", func(t *testing.T) {
		plain := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(plain, []byte("x"), 0644))
		_, ok := FindBinary(plain)
		assert.False(t, ok)
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())
		t.Setenv("HOME", t.TempDir())
		_, ok := FindBinary("definitely-not-a-meshtastic-tool")
		assert.False(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := FindBinary("")
		assert.False(t, ok)
	})
}
