package plindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexGeographicHeaderFile(t *testing.T) {
	path := filepath.Join("testdata", "synthetic", "geo.txt")

	index, err := indexGeographicHeaderFile(path, Census2010Pl94171, 3)
	require.NoError(t, err)

	logrecno, ok := index.logrecnoFor("181570052001013")
	require.True(t, ok)
	assert.Equal(t, uint64(1), logrecno)

	logrecno, ok = index.logrecnoFor("181570052002021")
	require.True(t, ok)
	assert.Equal(t, uint64(3), logrecno)

	// An unknown GEOID is absent, and the state-level summary row (blank
	// county/tract/block) is not indexed: only the two leaf rows are.
	_, ok = index.logrecnoFor("999999999999999")
	assert.False(t, ok)
	assert.Len(t, index.byGeoid, 2)
}

func TestIndexGeographicHeaderFileRejectsDuplicateGeoid(t *testing.T) {
	dir := t.TempDir()
	line := make([]byte, HeaderLineLength)
	for i := range line {
		line[i] = ' '
	}
	byName := map[Field]FieldSpan{}
	for _, s := range pl94171HeaderCatalog {
		byName[s.Name] = s
	}
	set := func(b []byte, span FieldSpan, v string) {
		copy(b[span.Start:span.End], v)
	}

	l1 := append([]byte(nil), line...)
	set(l1, byName[FieldLOGRECNO], "0000001")
	set(l1, byName[FieldSTATE], "18")
	set(l1, byName[FieldCOUNTY], "157")
	set(l1, byName[FieldTRACT], "005200")
	set(l1, byName[FieldBLOCK], "1013")

	l2 := append([]byte(nil), line...)
	set(l2, byName[FieldLOGRECNO], "0000002")
	set(l2, byName[FieldSTATE], "18")
	set(l2, byName[FieldCOUNTY], "157")
	set(l2, byName[FieldTRACT], "005200")
	set(l2, byName[FieldBLOCK], "1013")

	path := filepath.Join(dir, "geo.txt")
	content := append(append(l1, '\n'), append(l2, '\n')...)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	_, err := indexGeographicHeaderFile(path, Census2010Pl94171, 2)
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrDuplicateGeoid, perr.Kind)
}
