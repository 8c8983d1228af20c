package plindex

import "fmt"

// Release identifies one of the two enumerated census vintages this
// package understands. Schema pairs it with an optional Table; the field
// catalog and header functions take a Release on its own.
type Release int

const (
	Census2010Pl94171 Release = iota
	Census2020Pl94171
)

func (r Release) String() string {
	switch r {
	case Census2010Pl94171:
		return "Census2010-PL94-171"
	case Census2020Pl94171:
		return "Census2020-PL94-171"
	default:
		return "UnknownRelease"
	}
}

// Table enumerates the demographic tables carried by a PL94-171 release.
// P5 exists only under Census2020Pl94171.
type Table int

const (
	TableP1 Table = iota
	TableP2
	TableP3
	TableP4
	TableH1
	TableP5
)

func (t Table) String() string {
	switch t {
	case TableP1:
		return "P1"
	case TableP2:
		return "P2"
	case TableP3:
		return "P3"
	case TableP4:
		return "P4"
	case TableH1:
		return "H1"
	case TableP5:
		return "P5"
	default:
		return "UnknownTable"
	}
}

// tableForName resolves a packing-list table token (lowercase, e.g. "p1")
// to a Table value valid for the given release.
func tableForName(release Release, name string) (Table, bool) {
	switch name {
	case "p1":
		return TableP1, true
	case "p2":
		return TableP2, true
	case "p3":
		return TableP3, true
	case "p4":
		return TableP4, true
	case "h1":
		return TableH1, true
	case "p5":
		if release == Census2020Pl94171 {
			return TableP5, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Schema is the tagged discriminator selecting one census release and,
// optionally, one table within it. Schema is small, comparable, and
// intended to be copied freely; it works as a map key without any extra
// machinery.
type Schema struct {
	Release Release
	Table   Table
	hasTable bool
}

// SchemaFor builds a tableless Schema identifying only a release — the
// PackingList's own schema field, which never carries a table.
func SchemaFor(release Release) Schema {
	return Schema{Release: release}
}

// WithTable returns a copy of the schema narrowed to a specific table.
func (s Schema) WithTable(t Table) Schema {
	s.Table = t
	s.hasTable = true
	return s
}

// HasTable reports whether this schema value carries a table component.
func (s Schema) HasTable() bool {
	return s.hasTable
}

func (s Schema) String() string {
	if s.hasTable {
		return fmt.Sprintf("%s(%s)", s.Release, s.Table)
	}
	return s.Release.String()
}

// FileRole tags one file referenced by a packing list: either the single
// fixed-column geographic header, or tabular file number n (n >= 1).
type FileRole struct {
	tabular    uint32
	isGeoHeader bool
}

// GeographicHeaderRole is the FileRole naming the release's single
// fixed-column geographic header file.
var GeographicHeaderRole = FileRole{isGeoHeader: true}

// TabularRole names the release-assigned tabular file index n.
func TabularRole(n uint32) FileRole {
	return FileRole{tabular: n}
}

// IsGeographicHeader reports whether this role names the header file.
func (f FileRole) IsGeographicHeader() bool { return f.isGeoHeader }

// TabularIndex returns the tabular file number and true, or (0, false)
// when this role names the geographic header instead.
func (f FileRole) TabularIndex() (uint32, bool) {
	if f.isGeoHeader {
		return 0, false
	}
	return f.tabular, true
}

func (f FileRole) String() string {
	if f.isGeoHeader {
		return "GeographicHeader"
	}
	return fmt.Sprintf("Tabular(%d)", f.tabular)
}
