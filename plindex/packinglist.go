package plindex

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// TableSegmentSpecifier declares "this segment of this table lives in
// file FileIndex and occupies Columns consecutive CSV columns" — the
// as-written form parsed directly out of a packing list's data
// segmentation line, before column cursor arithmetic resolves it to an
// absolute range.
type TableSegmentSpecifier struct {
	FileIndex uint32
	Columns   int
}

// TableSegmentLocation is the resolved absolute column range for one
// table segment, after the parser walks the per-file column cursor.
type TableSegmentLocation struct {
	FileIndex uint32
	Start     int
	End       int
}

// Len reports the segment's width in columns.
func (l TableSegmentLocation) Len() int { return l.End - l.Start }

// TableLocations is the ordered sequence of segments making up one
// table; a table split across multiple files lists its segments in the
// order the caller's output should present them.
type TableLocations []TableSegmentLocation

// TotalColumns sums the width of every segment.
func (l TableLocations) TotalColumns() int {
	n := 0
	for _, seg := range l {
		n += seg.Len()
	}
	return n
}

// PackingList is the parsed form of one census release's manifest.
type PackingList struct {
	Schema               Schema
	Directory            string
	TableLocations       map[Table]TableLocations
	TabularFiles         map[uint32]string
	GeographicHeaderFile string
	Rows                 uint64
}

// Locate resolves a filename recorded in the packing list against the
// directory the manifest itself was loaded from.
func (pl *PackingList) Locate(name string) string {
	if pl.Directory == "" {
		return name
	}
	return filepath.Join(pl.Directory, name)
}

var (
	stusabRe = regexp.MustCompile(`(?m)^STUSAB: (?P<stusab>[A-Z]{2})\b`)

	fileInformationRe = regexp.MustCompile(
		`(?m)^(?P<filename>(?P<stusab>[a-z]{2})(?P<ident>\w+)(?P<year>\d{4})\.(?P<ds>.+))\|(?P<date>[^|]+)\|(?P<size>\d+)\|(?P<lines>\d+)\|$`)

	tableInformationRe = regexp.MustCompile(`(?m)^(?P<table>[A-Za-z0-9]+)\|(?P<loc>[\d: ]+)\|$`)
)

// ParsePackingListFile reads and parses the packing list at path, setting
// the returned PackingList's Directory to path's parent so that
// TabularFiles/GeographicHeaderFile entries (stored as the packing list's
// own relative names) can be resolved with Locate.
func ParsePackingListFile(path string) (*PackingList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(ErrIO, path, err)
	}

	pl, err := ParsePackingList(string(data))
	if err != nil {
		if perr, ok := err.(*Error); ok && perr.Path == "" {
			perr.Path = path
		}
		return nil, err
	}

	pl.Directory = filepath.Dir(path)
	return pl, nil
}

// ParsePackingList parses the text of a packing list manifest in four
// phases: state abbreviation, schema inference, file inventory, and
// table column locations. Commentary lines and "#" section separators
// are ignored; only lines matching one of the three directive shapes
// contribute.
func ParsePackingList(data string) (*PackingList, error) {
	logger().Debugw("parsing packing list", "bytes", len(data))

	// Phase A: STUSAB
	stusabMatch := stusabRe.FindStringSubmatch(data)
	if stusabMatch == nil {
		return nil, newError(ErrMalformedPackingList, "", fmt.Errorf("no STUSAB directive found"))
	}
	stusab := strings.ToLower(stusabMatch[stusabRe.SubexpIndex("stusab")])

	logger().Debugw("inferred stusab", "stusab", stusab)

	// Phase B: schema inference
	filenameRe := regexp.MustCompile(
		fmt.Sprintf(`(?m)%s(?P<inner>\w*)(?P<year>\d{4})\.(?P<ext>[a-z1-9-]*)\b`, regexp.QuoteMeta(stusab)))

	schemas := map[Release]bool{}
	for _, m := range filenameRe.FindAllStringSubmatch(data, -1) {
		year := m[filenameRe.SubexpIndex("year")]
		ext := m[filenameRe.SubexpIndex("ext")]
		switch {
		case year == "2010" && ext == "pl":
			schemas[Census2010Pl94171] = true
		case year == "2020" && ext == "pl":
			schemas[Census2020Pl94171] = true
		}
	}

	if len(schemas) == 0 {
		return nil, newError(ErrUnknownSchema, "", fmt.Errorf("no recognized (year, ext) pair found"))
	}
	if len(schemas) > 1 {
		return nil, newError(ErrAmbiguousSchema, "", fmt.Errorf("multiple distinct schemas matched"))
	}

	var release Release
	for r := range schemas {
		release = r
	}

	logger().Debugw("inferred schema", "release", release.String())

	// Phase C: file information
	tabularFiles := map[uint32]string{}
	geoFile := ""
	haveGeoFile := false
	var rows uint64
	haveRows := false

	for _, m := range fileInformationRe.FindAllStringSubmatch(data, -1) {
		filename := m[fileInformationRe.SubexpIndex("filename")]
		ident := m[fileInformationRe.SubexpIndex("ident")]
		linesStr := m[fileInformationRe.SubexpIndex("lines")]

		lines, err := strconv.ParseUint(linesStr, 10, 64)
		if err != nil {
			return nil, newError(ErrMalformedPackingList, "", fmt.Errorf("unparseable line count %q: %w", linesStr, err))
		}

		if ident == "geo" {
			if haveGeoFile {
				return nil, newError(ErrMalformedPackingList, "", fmt.Errorf("more than one geographic header file"))
			}
			geoFile = filename
			haveGeoFile = true
		} else if n, err := strconv.ParseUint(ident, 10, 32); err == nil {
			tabularFiles[uint32(n)] = filename
		} else {
			return nil, newError(ErrUnrecognizedFile, filename, fmt.Errorf("unrecognized ident %q", ident))
		}

		if !haveRows {
			rows = lines
			haveRows = true
		} else if rows != lines {
			return nil, newError(ErrInconsistentRowCount, filename, fmt.Errorf("expected %d lines, file reports %d", rows, lines))
		}
	}

	if !haveGeoFile {
		return nil, newError(ErrMalformedPackingList, "", fmt.Errorf("missing geographic header file"))
	}
	if len(tabularFiles) == 0 {
		return nil, newError(ErrMalformedPackingList, "", fmt.Errorf("no tabular files found"))
	}

	logger().Debugw("packing list file inventory", "tabular_files", len(tabularFiles), "rows", rows)

	// Phase D: table locations
	tableLocations := map[Table]TableLocations{}
	cursor := map[uint32]int{}

	for _, m := range tableInformationRe.FindAllStringSubmatch(data, -1) {
		name := m[tableInformationRe.SubexpIndex("table")]
		loc := m[tableInformationRe.SubexpIndex("loc")]

		table, ok := tableForName(release, name)
		if !ok {
			return nil, newError(ErrUnknownTable, "", fmt.Errorf("unrecognized table %q", name))
		}

		var locations TableLocations
		for _, token := range strings.Split(loc, " ") {
			if token == "" {
				continue
			}
			parts := strings.SplitN(token, ":", 2)
			if len(parts) != 2 {
				return nil, newError(ErrMalformedPackingList, "", fmt.Errorf("malformed table segment specifier %q", token))
			}
			fileIdx, err := strconv.ParseUint(parts[0], 10, 32)
			if err != nil {
				return nil, newError(ErrMalformedPackingList, "", fmt.Errorf("malformed file index %q: %w", parts[0], err))
			}
			width, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, newError(ErrMalformedPackingList, "", fmt.Errorf("malformed column width %q: %w", parts[1], err))
			}

			file := uint32(fileIdx)
			if _, seen := cursor[file]; !seen {
				cursor[file] = 5
			}
			start := cursor[file]
			end := start + width
			cursor[file] = end

			locations = append(locations, TableSegmentLocation{FileIndex: file, Start: start, End: end})
		}

		tableLocations[table] = locations

		logger().Debugw("resolved table segments", "table", table.String(), "segments", len(locations))
	}

	return &PackingList{
		Schema:               SchemaFor(release),
		TableLocations:       tableLocations,
		TabularFiles:         tabularFiles,
		GeographicHeaderFile: geoFile,
		Rows:                 rows,
	}, nil
}
