package sounds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	all := c.All()
	require.NotEmpty(t, all)
	assert.Equal(t, "rain", all[0].ID)
	assert.True(t, c.Has("white-noise"))
	assert.False(t, c.Has("dial-up-modem"))

	s, ok := c.Get("cafe")
	require.True(t, ok)
	assert.Equal(t, "Coffee Shop", s.Name)
	assert.True(t, s.Loop)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("sounds:\n  - name: Missing\n"))
	assert.ErrorContains(t, err, "has no id")

	_, err = Parse([]byte("sounds:\n  - id: a\n  - id: a\n"))
	assert.ErrorContains(t, err, "duplicate sound id")

	_, err = Parse([]byte("sounds: [::"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sounds:\n  - id: birds\n    name: Birds\n"), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, c.All(), 1)
	assert.True(t, c.Has("birds"))

	c, err = LoadFile("")
	require.NoError(t, err)
	assert.True(t, c.Has("rain"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAll_ReturnsCopy(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	all := c.All()
	all[0].ID = "mutated"
	assert.True(t, c.Has("rain"))
	assert.Equal(t, "rain", c.All()[0].ID)
}
