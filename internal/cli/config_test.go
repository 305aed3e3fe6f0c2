package cli

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packlab/rollpack/pkg/pack"
)

func TestConfigInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollpack.toml")

	c := New(io.Discard, LogInfo)
	cmd := c.configInitCommand()
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())

	cfg, err := pack.LoadTOML(path)
	require.NoError(t, err)
	assert.Equal(t, pack.DefaultConfig(), cfg)
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollpack.toml")

	c := New(io.Discard, LogInfo)

	first := c.configInitCommand()
	first.SetArgs([]string{path})
	require.NoError(t, first.Execute())

	second := c.configInitCommand()
	second.SetArgs([]string{path})
	assert.Error(t, second.Execute(), "init should refuse to overwrite without --force")

	forced := c.configInitCommand()
	forced.SetArgs([]string{path, "--force"})
	assert.NoError(t, forced.Execute())
}
