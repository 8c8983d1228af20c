package plindex

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePackingListFile(t *testing.T) {
	pl, err := ParsePackingListFile(filepath.Join("testdata", "synthetic", "packing_list.txt"))
	require.NoError(t, err)

	assert.Equal(t, Census2010Pl94171, pl.Schema.Release)
	assert.Equal(t, uint64(3), pl.Rows)
	assert.Equal(t, "ingeo2010.pl", pl.GeographicHeaderFile)
	require.Len(t, pl.TabularFiles, 2)
	assert.Equal(t, "in000012010.pl", pl.TabularFiles[1])
	assert.Equal(t, "in000022010.pl", pl.TabularFiles[2])

	p1 := pl.TableLocations[TableP1]
	require.Len(t, p1, 1)
	assert.Equal(t, uint32(1), p1[0].FileIndex)
	assert.Equal(t, 5, p1[0].Start)
	assert.Equal(t, 8, p1[0].End)

	p2 := pl.TableLocations[TableP2]
	require.Len(t, p2, 1)
	assert.Equal(t, 8, p2[0].Start)
	assert.Equal(t, 10, p2[0].End)

	h1 := pl.TableLocations[TableH1]
	require.Len(t, h1, 1)
	assert.Equal(t, uint32(2), h1[0].FileIndex)
	assert.Equal(t, 10, h1[0].Start)
	assert.Equal(t, 11, h1[0].End)
}

func TestParsePackingListIndiana2010Layout(t *testing.T) {
	data := `###################################
STUSAB: IN
###################################
in000012010.pl|Tuesday, February 01, 2011|115745628|335756|
in000022010.pl|Tuesday, February 01, 2011|136407391|335756|
ingeo2010.pl|Tuesday, February 01, 2011|168213756|335756|
###################################
p1|1:71|
p2|1:73|
p3|2:71|
p4|2:73|
h1|2:3|
`
	pl, err := ParsePackingList(data)
	require.NoError(t, err)

	assert.Equal(t, Census2010Pl94171, pl.Schema.Release)
	assert.Equal(t, uint64(335756), pl.Rows)
	require.Len(t, pl.TabularFiles, 2)
	require.Len(t, pl.TableLocations, 5)

	want := map[Table]TableSegmentLocation{
		TableP1: {FileIndex: 1, Start: 5, End: 76},
		TableP2: {FileIndex: 1, Start: 76, End: 149},
		TableP3: {FileIndex: 2, Start: 5, End: 76},
		TableP4: {FileIndex: 2, Start: 76, End: 149},
		TableH1: {FileIndex: 2, Start: 149, End: 152},
	}
	for table, seg := range want {
		locs := pl.TableLocations[table]
		require.Len(t, locs, 1, "table %s", table)
		assert.Equal(t, seg, locs[0], "table %s", table)
	}
}

func TestParsePackingListTableSplitAcrossFiles(t *testing.T) {
	data := `STUSAB: IN
in000012010.pl|01-01-2021|100|3|
in000022010.pl|01-01-2021|100|3|
ingeo2010.pl|01-01-2021|100|3|
p1|1:3 2:2|
p2|1:4|
`
	pl, err := ParsePackingList(data)
	require.NoError(t, err)

	p1 := pl.TableLocations[TableP1]
	require.Len(t, p1, 2)
	assert.Equal(t, TableSegmentLocation{FileIndex: 1, Start: 5, End: 8}, p1[0])
	assert.Equal(t, TableSegmentLocation{FileIndex: 2, Start: 5, End: 7}, p1[1])
	assert.Equal(t, 5, p1.TotalColumns())

	// p2's file-1 segment starts where p1's file-1 segment left off: the
	// per-file column cursor carries across tables.
	p2 := pl.TableLocations[TableP2]
	require.Len(t, p2, 1)
	assert.Equal(t, TableSegmentLocation{FileIndex: 1, Start: 8, End: 12}, p2[0])
}

func TestParsePackingListUnknownTable(t *testing.T) {
	data := `STUSAB: IN
in000012010.pl|01-01-2021|100|3|
ingeo2010.pl|01-01-2021|100|3|
p9|1:3|
`
	_, err := ParsePackingList(data)
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrUnknownTable, perr.Kind)
}

func TestParsePackingListP5RequiresCensus2020(t *testing.T) {
	data := `STUSAB: IN
in000012010.pl|01-01-2021|100|3|
ingeo2010.pl|01-01-2021|100|3|
p5|1:3|
`
	_, err := ParsePackingList(data)
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrUnknownTable, perr.Kind)
}

func TestParsePackingListUnrecognizedFile(t *testing.T) {
	data := `STUSAB: IN
in000012010.pl|01-01-2021|100|3|
inxyz2010.pl|01-01-2021|100|3|
ingeo2010.pl|01-01-2021|100|3|
p1|1:3|
`
	_, err := ParsePackingList(data)
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrUnrecognizedFile, perr.Kind)
}

func TestParsePackingListAmbiguousSchema(t *testing.T) {
	data := `STUSAB: IN
in000012010.pl|01-01-2021|100|3|
in000012020.pl|01-01-2021|100|3|
ingeo2010.pl|01-01-2021|100|3|
`
	_, err := ParsePackingList(data)
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrAmbiguousSchema, perr.Kind)
}

func TestParsePackingListMissingStusab(t *testing.T) {
	_, err := ParsePackingList("no state directive here\n")
	require.Error(t, err)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ErrMalformedPackingList, perr.Kind)
}

func TestParsePackingListInconsistentRowCount(t *testing.T) {
	data := `STUSAB: IN
in000012010.pl|01-01-2021|100|3|
in000022010.pl|01-01-2021|100|4|
ingeo2010.pl|01-01-2021|100|3|
`
	_, err := ParsePackingList(data)
	require.Error(t, err)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ErrInconsistentRowCount, perr.Kind)
}
