package plindex

import (
	"fmt"
	"strconv"
	"strings"
)

// GeographicHeader is a read-only view over one raw fixed-column header
// line. It owns its line buffer and never retains a reference to the
// file it came from: its lifecycle is independent of the IndexedDataset
// once built.
type GeographicHeader struct {
	release Release
	line    string
}

// newGeographicHeader wraps a raw header line already known to be
// HeaderLineLength bytes (trailing line terminator, if any, is the
// caller's concern and is simply ignored by every span, all of which lie
// within the first 500 bytes).
func newGeographicHeader(release Release, line string) *GeographicHeader {
	return &GeographicHeader{release: release, line: line}
}

// Name returns the trimmed NAME field.
func (h *GeographicHeader) Name() string {
	return h.Field(FieldNAME)
}

// LogicalRecordNumber parses and returns the header line's own LOGRECNO
// field. A malformed field (non-numeric content) is a bug in the caller's
// line offset bookkeeping, not a normal runtime condition, so it panics.
// The indexing path parses with parseHeaderLogrecno instead, which
// reports a structured error.
func (h *GeographicHeader) LogicalRecordNumber() uint64 {
	n, err := strconv.ParseUint(h.Field(FieldLOGRECNO), 10, 64)
	if err != nil {
		panic("plindex: header line has unparseable LOGRECNO: " + err.Error())
	}
	return n
}

// parseHeaderLogrecno extracts and parses the LOGRECNO field of a raw
// header line without constructing a view.
func parseHeaderLogrecno(release Release, line string) (uint64, error) {
	span, _ := NamedField(release, FieldLOGRECNO)
	raw := strings.TrimSpace(line[span.Start:span.End])
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable LOGRECNO %q: %w", raw, err)
	}
	return n, nil
}

// Field returns the trimmed substring for any named field. Unknown field
// names return the empty string.
func (h *GeographicHeader) Field(name Field) string {
	span, ok := NamedField(h.release, name)
	if !ok {
		return ""
	}
	return strings.TrimSpace(h.line[span.Start:span.End])
}

// RawLine returns the untrimmed 500-byte content of the header line.
func (h *GeographicHeader) RawLine() string {
	return h.line
}
