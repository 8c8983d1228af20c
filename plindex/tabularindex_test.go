package plindex

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexTabularFile(t *testing.T) {
	path := filepath.Join("testdata", "synthetic", "file1.csv")

	index, err := indexTabularFile(path, TabularRole(1), 3)
	require.NoError(t, err)

	for _, n := range []uint64{1, 2, 3} {
		offset, ok := index.get(n)
		assert.True(t, ok, "logrecno %d should be indexed", n)
		assert.GreaterOrEqual(t, offset, uint64(0))
	}

	_, ok := index.get(4)
	assert.False(t, ok)
}

func TestIndexTabularFileDetectsMissingRows(t *testing.T) {
	_, err := indexTabularFile(filepath.Join("testdata", "synthetic", "file1.csv"), TabularRole(1), 5)
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrIndexInconsistency, perr.Kind)
}

func TestDensePositionIndexSentinel(t *testing.T) {
	idx := newDensePositionIndex(10)
	_, ok := idx.get(7)
	assert.False(t, ok)

	idx.set(7, 1234)
	v, ok := idx.get(7)
	require.True(t, ok)
	assert.Equal(t, uint64(1234), v)
}

func TestSparsePositionIndex(t *testing.T) {
	idx := newSparsePositionIndex(2)
	idx.set(1, 10)
	v, ok := idx.get(1)
	require.True(t, ok)
	assert.Equal(t, uint64(10), v)

	_, ok = idx.get(2)
	assert.False(t, ok)
}

func TestShouldUseDenseIndexHandlesZeroRows(t *testing.T) {
	assert.True(t, shouldUseDenseIndex(0))
}
