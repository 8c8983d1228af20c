package plindex

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// geoHeaderEntry is one GeographicHeaderIndex value: the logical record
// number the leaf geography belongs to, and the byte offset of its
// header line within the geographic header file.
type geoHeaderEntry struct {
	logrecno uint64
	offset   int64
}

// GeographicHeaderIndex maps a leaf GEOID (STATE+COUNTY+TRACT+BLOCK,
// concatenated without separators) to the entry needed to answer both
// GEOID-keyed lookups without rescanning the header file.
type GeographicHeaderIndex struct {
	byGeoid map[string]geoHeaderEntry
}

func newGeographicHeaderIndex(capacity int) *GeographicHeaderIndex {
	return &GeographicHeaderIndex{byGeoid: make(map[string]geoHeaderEntry, capacity)}
}

func (idx *GeographicHeaderIndex) logrecnoFor(geoid string) (uint64, bool) {
	e, ok := idx.byGeoid[geoid]
	return e.logrecno, ok
}

func (idx *GeographicHeaderIndex) offsetFor(geoid string) (int64, bool) {
	e, ok := idx.byGeoid[geoid]
	return e.offset, ok
}

// indexGeographicHeaderFile scans the fixed-column geographic header file
// line by line, tracking a running byte offset, and records one
// GeographicHeaderIndex entry per leaf geography (a row whose BLOCK field
// is non-blank; summary-level rows always leave BLOCK blank and are
// skipped).
//
// GEOID construction concatenates STATE, COUNTY, TRACT, and BLOCK exactly
// as they appear in the fixed-column line, with no trimming. The spans
// are already fixed-width and zero-padded, so the untrimmed substrings
// are the canonical GEOID digits.
func indexGeographicHeaderFile(path string, release Release, rows uint64) (*GeographicHeaderIndex, error) {
	rc, err := openMaybeGzip(path)
	if err != nil {
		return nil, newError(ErrIO, path, err)
	}
	defer rc.Close()

	stateSpan, _ := NamedField(release, FieldSTATE)
	countySpan, _ := NamedField(release, FieldCOUNTY)
	tractSpan, _ := NamedField(release, FieldTRACT)
	blockSpan, _ := NamedField(release, FieldBLOCK)

	index := newGeographicHeaderIndex(int(rows))

	reader := bufio.NewReaderSize(rc, 64*1024)
	var offset int64
	lineNo := 0

	for {
		line, rerr := reader.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			return nil, newErrorAtOffset(ErrIO, path, offset, rerr)
		}
		if len(line) == 0 {
			break
		}
		lineNo++
		lineOffset := offset
		offset += int64(len(line))

		content := strings.TrimRight(line, "\r\n")
		if content == "" {
			if rerr == io.EOF {
				break
			}
			continue
		}
		if len(content) < HeaderLineLength {
			return nil, newErrorAt(ErrIndexInconsistency, path, lineNo,
				fmt.Errorf("line is %d bytes, want at least %d", len(content), HeaderLineLength))
		}

		block := content[blockSpan.Start:blockSpan.End]
		if strings.TrimSpace(block) == "" {
			if rerr == io.EOF {
				break
			}
			continue
		}

		geoid := content[stateSpan.Start:stateSpan.End] +
			content[countySpan.Start:countySpan.End] +
			content[tractSpan.Start:tractSpan.End] +
			block

		logrecno, perr := parseHeaderLogrecno(release, content)
		if perr != nil {
			return nil, newErrorAt(ErrIndexInconsistency, path, lineNo, perr)
		}

		if _, dup := index.byGeoid[geoid]; dup {
			return nil, newErrorAt(ErrDuplicateGeoid, path, lineNo, fmt.Errorf("duplicate GEOID %q", geoid))
		}

		index.byGeoid[geoid] = geoHeaderEntry{logrecno: logrecno, offset: lineOffset}

		if rerr == io.EOF {
			break
		}
	}

	logger().Debugw("indexed geographic header file", "path", path, "leaves", len(index.byGeoid))

	return index, nil
}
