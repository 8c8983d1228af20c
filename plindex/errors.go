package plindex

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Kind discriminates the error taxonomy described by the retrieval and
// indexing contracts: every failure the package returns carries one of
// these so callers can pattern-match, either with errors.As and the
// Error.Kind field or with errors.Is against an *Error of the same Kind.
type Kind int

const (
	ErrIO Kind = iota
	ErrMalformedPackingList
	ErrUnknownSchema
	ErrAmbiguousSchema
	ErrUnknownTable
	ErrUnrecognizedFile
	ErrInconsistentRowCount
	ErrCorruptTabular
	ErrDuplicateGeoid
	ErrUnknownGeoid
	ErrUnknownLogrecno
	ErrNotIndexed
	ErrIndexInconsistency
)

func (k Kind) String() string {
	switch k {
	case ErrIO:
		return "io"
	case ErrMalformedPackingList:
		return "malformed_packing_list"
	case ErrUnknownSchema:
		return "unknown_schema"
	case ErrAmbiguousSchema:
		return "ambiguous_schema"
	case ErrUnknownTable:
		return "unknown_table"
	case ErrUnrecognizedFile:
		return "unrecognized_file"
	case ErrInconsistentRowCount:
		return "inconsistent_row_count"
	case ErrCorruptTabular:
		return "corrupt_tabular"
	case ErrDuplicateGeoid:
		return "duplicate_geoid"
	case ErrUnknownGeoid:
		return "unknown_geoid"
	case ErrUnknownLogrecno:
		return "unknown_logrecno"
	case ErrNotIndexed:
		return "not_indexed"
	case ErrIndexInconsistency:
		return "index_inconsistency"
	default:
		return "unknown"
	}
}

// Error is the structured, pattern-matchable error value every public
// operation in this package returns on failure. Path and byte offset are
// populated whenever the failure can be attributed to a specific file
// position; zero values mean "not applicable", not "offset zero".
type Error struct {
	Kind   Kind
	Path   string
	Line   int
	Offset int64
	cause  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("plindex: %s: %s:%d: %s", e.Kind, e.Path, e.Line, e.message())
	case e.Path != "":
		return fmt.Sprintf("plindex: %s: %s: %s", e.Kind, e.Path, e.message())
	default:
		return fmt.Sprintf("plindex: %s: %s", e.Kind, e.message())
	}
}

func (e *Error) message() string {
	if e.cause != nil {
		return eris.ToString(e.cause, false)
	}
	return e.Kind.String()
}

// Unwrap exposes the wrapped cause so errors.Is/errors.As see through to
// the originating I/O or parse error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is lets errors.Is compare two *Error values by Kind alone, ignoring
// their path/line/cause details.
func (e *Error) Is(target error) bool {
	if other, ok := target.(*Error); ok {
		return e.Kind == other.Kind
	}
	return false
}

func newError(kind Kind, path string, cause error) *Error {
	if cause != nil {
		cause = eris.Wrap(cause, kind.String())
	}
	return &Error{Kind: kind, Path: path, cause: cause}
}

func newErrorAt(kind Kind, path string, line int, cause error) *Error {
	err := newError(kind, path, cause)
	err.Line = line
	return err
}

func newErrorAtOffset(kind Kind, path string, offset int64, cause error) *Error {
	err := newError(kind, path, cause)
	err.Offset = offset
	return err
}
