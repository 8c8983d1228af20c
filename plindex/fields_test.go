package plindex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exampleHeaderLine mirrors the canonical Indiana 2010 state-level summary
// row used throughout the geographic header examples: FILEID=PLST,
// STUSAB=IN, SUMLEV=040, LOGRECNO=0000001, STATE=18, NAME=Indiana,
// POP100=6483802, HU100=2795541, STATENS=00448508, with county/tract/block
// all blank.
func exampleHeaderLine(t *testing.T) string {
	t.Helper()
	line := make([]byte, HeaderLineLength)
	for i := range line {
		line[i] = ' '
	}
	set := func(span FieldSpan, v string) {
		copy(line[span.Start:span.End], v)
	}
	byName := map[Field]FieldSpan{}
	for _, s := range pl94171HeaderCatalog {
		byName[s.Name] = s
	}
	set(byName[FieldFILEID], "PLST")
	set(byName[FieldSTUSAB], "IN")
	set(byName[FieldSUMLEV], "040")
	set(byName[FieldLOGRECNO], "0000001")
	set(byName[FieldSTATE], "18")
	set(byName[FieldNAME], "Indiana")
	set(byName[FieldPOP100], "6483802")
	set(byName[FieldHU100], "2795541")
	set(byName[FieldSTATENS], "00448508")
	return string(line)
}

func TestCatalogCoversFullLine(t *testing.T) {
	var last int
	for _, span := range pl94171HeaderCatalog {
		require.Equal(t, last, span.Start, "field %s does not start where the previous field ended", span.Name)
		require.Less(t, span.Start, span.End, "field %s has a non-positive width", span.Name)
		last = span.End
	}
	require.Equal(t, HeaderLineLength, last, "catalog does not cover the full header line")
}

func TestAllFieldsPreservesRawWidths(t *testing.T) {
	line := exampleHeaderLine(t)
	raw := AllFields(Census2010Pl94171, line)

	require.Len(t, raw, len(pl94171HeaderCatalog))
	for i, f := range raw {
		assert.Equal(t, pl94171HeaderCatalog[i].Name, f.Field)
		assert.Len(t, f.Value, pl94171HeaderCatalog[i].Len(), "field %s", f.Field)
	}
}

func TestAllFieldsTrimmed(t *testing.T) {
	line := exampleHeaderLine(t)
	trimmed := AllFieldsTrimmed(Census2010Pl94171, line)

	byName := map[Field]string{}
	for _, f := range trimmed {
		byName[f.Field] = f.Value
	}

	assert.Equal(t, "PLST", byName[FieldFILEID])
	assert.Equal(t, "IN", byName[FieldSTUSAB])
	assert.Equal(t, "040", byName[FieldSUMLEV])
	assert.Equal(t, "0000001", byName[FieldLOGRECNO])
	assert.Equal(t, "18", byName[FieldSTATE])
	assert.Equal(t, "Indiana", byName[FieldNAME])
	assert.Equal(t, "6483802", byName[FieldPOP100])
	assert.Equal(t, "2795541", byName[FieldHU100])
	assert.Equal(t, "00448508", byName[FieldSTATENS])
	assert.Equal(t, "", byName[FieldCOUNTY])
	assert.Equal(t, "", byName[FieldTRACT])
	assert.Equal(t, "", byName[FieldBLOCK])
}

func TestFieldsNonEmptyOmitsBlankFields(t *testing.T) {
	line := exampleHeaderLine(t)
	nonEmpty := Fields(Census2010Pl94171, line)

	for _, f := range nonEmpty {
		require.NotEmpty(t, strings.TrimSpace(f.Value))
	}

	all := AllFieldsTrimmed(Census2010Pl94171, line)
	assert.Less(t, len(nonEmpty), len(all), "fixture should have at least one blank field")
}

func TestGeographicHeaderAccessors(t *testing.T) {
	header := newGeographicHeader(Census2010Pl94171, exampleHeaderLine(t))

	assert.Equal(t, "Indiana", header.Name())
	assert.Equal(t, uint64(1), header.LogicalRecordNumber())
	assert.Equal(t, "18", header.Field(FieldSTATE))
	assert.Equal(t, "", header.Field(FieldCOUNTY))
}
