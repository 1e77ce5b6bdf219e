package vecstore

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestartRecovery(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, testDim)
	require.NoError(t, err)

	vectors := map[string][]float32{
		"pos-1": padded(1, 0),
		"pos-2": padded(0, 1),
		"pos-3": padded(0.9, 0.1),
	}
	for id, vec := range vectors {
		_, err := s.Add(id, vec, map[string]any{"id": id})
		require.NoError(t, err)
	}
	_, err = s.Delete("pos-2")
	require.NoError(t, err)

	query := padded(1, 0)
	before, err := s.Search(query, 2)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reload from disk as a fresh process would.
	reopened, err := Open(dir, testDim)
	require.NoError(t, err)
	defer func() {
		_ = reopened.Close()
	}()

	pairs := reopened.List()
	require.Len(t, pairs, 2)
	assert.Equal(t, 2, reopened.LiveCount())
	assert.Equal(t, 3, reopened.Len(), "retired slot survives restart")

	after, err := reopened.Search(query, 2)
	require.NoError(t, err)
	require.Equal(t, len(before), len(after))
	for i := range before {
		assert.Equal(t, before[i].OriginalID, after[i].OriginalID)
		assert.InDelta(t, before[i].Score, after[i].Score, 1e-6)
	}

	entry, err := reopened.Get("pos-1")
	require.NoError(t, err)
	assert.Equal(t, "pos-1", entry.Metadata["id"])
}

func TestOpenRebuildsWhenIndexCountDiverges(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, testDim)
	require.NoError(t, err)
	_, err = s.Add("a", padded(1), nil)
	require.NoError(t, err)
	_, err = s.Add("b", padded(0, 1), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Forge an index header claiming a stale item count.
	indexPath := filepath.Join(dir, "index.bin")
	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[0:4], indexMagic)
	binary.LittleEndian.PutUint32(header[4:8], uint32(testDim))
	binary.LittleEndian.PutUint64(header[8:16], 99)
	require.NoError(t, os.WriteFile(indexPath, header, 0644))

	reopened, err := Open(dir, testDim)
	require.NoError(t, err)
	defer func() {
		_ = reopened.Close()
	}()

	results, err := reopened.Search(padded(1), 5)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// The index file was rewritten from the vector file.
	count, err := reopened.readIndexCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestOpenRebuildsWhenIndexFileCorrupt(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, testDim)
	require.NoError(t, err)
	_, err = s.Add("a", padded(1), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.bin"), []byte("garbage"), 0644))

	reopened, err := Open(dir, testDim)
	require.NoError(t, err)
	defer func() {
		_ = reopened.Close()
	}()

	results, err := reopened.Search(padded(1), 1)
	require.NoError(t, err)
	assert.Equal(t, "a", results[0].OriginalID)
}

func TestOpenRejectsVectorsWithoutMapping(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, testDim)
	require.NoError(t, err)
	_, err = s.Add("a", padded(1), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	require.NoError(t, os.Remove(filepath.Join(dir, "mapping.json")))

	_, err = Open(dir, testDim)
	require.Error(t, err)
}

func TestOpenRejectsTruncatedVectorFile(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, testDim)
	require.NoError(t, err)
	_, err = s.Add("a", padded(1), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	path := filepath.Join(dir, "vectors.bin")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-3], 0644))

	_, err = Open(dir, testDim)
	require.Error(t, err)
}

func TestOpenDropsMappingPastVectorFile(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, testDim)
	require.NoError(t, err)
	_, err = s.Add("a", padded(1), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Truncate the vector file to zero records while keeping the mapping;
	// vectors are authoritative, so the orphaned mapping entry is dropped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vectors.bin"), nil, 0644))

	reopened, err := Open(dir, testDim)
	require.NoError(t, err)
	defer func() {
		_ = reopened.Close()
	}()
	assert.Equal(t, 0, reopened.LiveCount())
}

func TestClearRecreatesEmptyFiles(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, testDim)
	require.NoError(t, err)
	_, err = s.Add("a", padded(1), nil)
	require.NoError(t, err)
	require.NoError(t, s.Clear())
	require.NoError(t, s.Close())

	info, err := os.Stat(filepath.Join(dir, "vectors.bin"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())

	reopened, err := Open(dir, testDim)
	require.NoError(t, err)
	defer func() {
		_ = reopened.Close()
	}()
	assert.Equal(t, 0, reopened.LiveCount())
}
