package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()

	c, err := New(filepath.Join(tmpDir, "cache"), 24, true)
	require.NoError(t, err)
	assert.True(t, c.Enabled())

	c, err = New("", 0, false)
	require.NoError(t, err)
	assert.False(t, c.Enabled())
}

func TestNewCreatesDirectory(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "nested", "cache", "dir")

	_, err := New(cacheDir, 24, true)
	require.NoError(t, err)

	_, err = os.Stat(cacheDir)
	assert.NoError(t, err, "New() should create cache directory")
}

func TestSetAndGetWithHash(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), 24, true)
	require.NoError(t, err)

	key := "/etc/router.xml"
	data := []byte(`{"unused":{}}`)
	hash := HashParts([]byte("<rpc-reply/>"))

	require.NoError(t, c.SetWithHash(key, hash, data))

	got, ok := c.GetWithHash(key, hash)
	require.True(t, ok)
	assert.Equal(t, data, got)

	_, ok = c.GetWithHash(key, HashParts([]byte("changed")))
	assert.False(t, ok, "hash mismatch must miss")

	_, ok = c.GetWithHash("other-key", hash)
	assert.False(t, ok)
}

func TestGetWithHashExpired(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), 24, true)
	require.NoError(t, err)
	c.ttl = time.Nanosecond

	require.NoError(t, c.SetWithHash("k", "h", []byte("v")))
	time.Sleep(time.Millisecond)

	_, ok := c.GetWithHash("k", "h")
	assert.False(t, ok)
	_, err = os.Stat(c.keyPath("k"))
	assert.True(t, os.IsNotExist(err), "expired entry should be removed")
}

func TestDisabledCache(t *testing.T) {
	c, err := New("", 0, false)
	require.NoError(t, err)

	require.NoError(t, c.SetWithHash("k", "h", []byte("v")))
	_, ok := c.GetWithHash("k", "h")
	assert.False(t, ok)
	assert.NoError(t, c.Clear())
}

func TestClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := New(dir, 24, true)
	require.NoError(t, err)

	require.NoError(t, c.SetWithHash("a", "h", []byte("1")))
	require.NoError(t, c.SetWithHash("b", "h", []byte("2")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o600))

	require.NoError(t, c.Clear())
	_, ok := c.GetWithHash("a", "h")
	assert.False(t, ok)
	_, ok = c.GetWithHash("b", "h")
	assert.False(t, ok)
	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err, "only cache entries are removed")

	require.NoError(t, c.SetWithHash("a", "h", []byte("3")), "cache stays usable after Clear")
	got, ok := c.GetWithHash("a", "h")
	assert.True(t, ok)
	assert.Equal(t, []byte("3"), got)
}

func TestHashParts(t *testing.T) {
	assert.Equal(t, HashParts([]byte("ab"), []byte("c")), HashParts([]byte("ab"), []byte("c")))
	assert.NotEqual(t, HashParts([]byte("ab"), []byte("c")), HashParts([]byte("a"), []byte("bc")))
	assert.Len(t, HashParts([]byte("x")), 64)
}
