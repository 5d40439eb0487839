package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetReadFirstHitWins(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	a, err := OpenFolder(dirA)
	require.NoError(t, err)
	b, err := OpenFolder(dirB)
	require.NoError(t, err)

	require.NoError(t, a.Write("shared.txt", []byte("from a"), CompressionDefault))
	require.NoError(t, b.Write("shared.txt", []byte("from b"), CompressionDefault))
	require.NoError(t, b.Write("only_b.txt", []byte("b only"), CompressionDefault))

	set := NewSet([]Archive{a, b}, b)

	data, ok, err := set.Read("SHARED.TXT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "from a", string(data), "first archive in order must win")

	data, ok, err = set.Read("only_b.txt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b only", string(data))
}

func TestSetWriteRoutesToDesignatedWritable(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	a, err := OpenFolder(dirA)
	require.NoError(t, err)
	b, err := OpenFolder(dirB)
	require.NoError(t, err)

	set := NewSet([]Archive{a, b}, b)

	require.NoError(t, set.Write("new.txt", []byte("new data"), CompressionDefault))

	assert.False(t, a.Exists("new.txt"), "write must not land in the non-writable archive")
	assert.True(t, b.Exists("new.txt"), "write must land in the designated writable archive")

	data, ok, err := set.Read("new.txt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new data", string(data))
}

func TestSetListDeduplicatesByNormalizedPath(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	a, err := OpenFolder(dirA)
	require.NoError(t, err)
	b, err := OpenFolder(dirB)
	require.NoError(t, err)

	require.NoError(t, a.Write(`data\texture\a.bmp`, []byte{1}, CompressionDefault))
	require.NoError(t, b.Write(`data\texture\a.bmp`, []byte{2}, CompressionDefault))
	require.NoError(t, b.Write(`data\texture\c.bmp`, []byte{3}, CompressionDefault))

	set := NewSet([]Archive{a, b}, b)

	entries, err := set.List([]string{".bmp"})
	require.NoError(t, err)
	assert.Len(t, entries, 2, "duplicate path across archives must be merged")
}

func TestSetReadMissingReturnsNotFound(t *testing.T) {
	dir := t.TempDir()
	a, err := OpenFolder(dir)
	require.NoError(t, err)

	set := NewSet([]Archive{a}, a)

	_, ok, err := set.Read("does_not_exist.txt")
	require.Error(t, err)
	assert.False(t, ok)
}
