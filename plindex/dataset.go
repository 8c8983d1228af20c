package plindex

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// datasetState is IndexedDataset's one-way Empty to Unpacked to Indexed
// lifecycle. Retrieval is only ever permitted from stateIndexed.
type datasetState int

const (
	stateEmpty datasetState = iota
	stateUnpacked
	stateIndexed
)

// IndexedDataset owns one parsed packing list, both derived indices, and
// read-only handles to every file the packing list names. Once Index
// returns successfully the dataset is logically immutable: its three
// retrieval methods may be called any number of times, concurrently,
// from any number of goroutines. Each call reads through its own
// positional file view rather than sharing a seek cursor.
type IndexedDataset struct {
	identifier string

	mu    sync.RWMutex
	state datasetState

	packingList *PackingList
	tabular     map[uint32]*os.File
	geoFile     *os.File

	positions map[uint32]LogicalRecordPositionIndex
	geoIndex  *GeographicHeaderIndex
}

// NewIndexedDataset creates an empty dataset identified by identifier. An
// empty identifier is replaced with a freshly generated UUID for callers
// with no natural name for a one-off load.
func NewIndexedDataset(identifier string) *IndexedDataset {
	if identifier == "" {
		identifier = uuid.NewString()
	}
	return &IndexedDataset{identifier: identifier, state: stateEmpty}
}

// Identifier returns the dataset's name.
func (d *IndexedDataset) Identifier() string { return d.identifier }

// Unpack parses the packing list at manifestPath and opens every file it
// names, advancing the dataset from Empty to Unpacked. Parsing failures
// are fatal and leave the dataset in the Empty state.
func (d *IndexedDataset) Unpack(manifestPath string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != stateEmpty {
		return newError(ErrNotIndexed, manifestPath, fmt.Errorf("Unpack called on a dataset already past Empty"))
	}

	pl, err := ParsePackingListFile(manifestPath)
	if err != nil {
		return err
	}

	tabular := make(map[uint32]*os.File, len(pl.TabularFiles))
	for idx, name := range pl.TabularFiles {
		f, err := os.Open(pl.Locate(name))
		if err != nil {
			for _, opened := range tabular {
				opened.Close()
			}
			return newError(ErrIO, pl.Locate(name), err)
		}
		tabular[idx] = f
	}

	geoFile, err := os.Open(pl.Locate(pl.GeographicHeaderFile))
	if err != nil {
		for _, opened := range tabular {
			opened.Close()
		}
		return newError(ErrIO, pl.Locate(pl.GeographicHeaderFile), err)
	}

	d.packingList = pl
	d.tabular = tabular
	d.geoFile = geoFile
	d.state = stateUnpacked

	logger().Debugw("unpacked dataset", "identifier", d.identifier, "tabular_files", len(tabular))

	return nil
}

// Index builds the tabular position indices and the geographic header
// index, one linear scan per file with up to DefaultConcurrency files
// scanned in parallel, then advances the dataset to Indexed. I/O errors
// encountered while indexing are fatal.
func (d *IndexedDataset) Index() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != stateUnpacked {
		return newError(ErrNotIndexed, "", fmt.Errorf("Index called outside the Unpacked state"))
	}

	pl := d.packingList

	var (
		mu        sync.Mutex
		positions = make(map[uint32]LogicalRecordPositionIndex, len(pl.TabularFiles))
		geoIndex  *GeographicHeaderIndex
	)

	g := new(errgroup.Group)
	g.SetLimit(DefaultConcurrency())

	for idx, name := range pl.TabularFiles {
		idx, name := idx, name
		g.Go(func() error {
			pos, err := indexTabularFile(pl.Locate(name), TabularRole(idx), pl.Rows)
			if err != nil {
				return err
			}
			mu.Lock()
			positions[idx] = pos
			mu.Unlock()
			return nil
		})
	}

	g.Go(func() error {
		gi, err := indexGeographicHeaderFile(pl.Locate(pl.GeographicHeaderFile), pl.Schema.Release, pl.Rows)
		if err != nil {
			return err
		}
		mu.Lock()
		geoIndex = gi
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	d.positions = positions
	d.geoIndex = geoIndex
	d.state = stateIndexed

	logger().Debugw("indexed dataset", "identifier", d.identifier, "rows", pl.Rows)

	return nil
}

func (d *IndexedDataset) requireIndexed() error {
	if d.state != stateIndexed {
		return newError(ErrNotIndexed, "", fmt.Errorf("dataset %q is not indexed", d.identifier))
	}
	return nil
}

// GetLogicalRecord assembles the flattened record for logical record n,
// projecting exactly the requested tables' segments in caller order and
// within-table segment order.
func (d *IndexedDataset) GetLogicalRecord(n uint64, tables []Table) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.requireIndexed(); err != nil {
		return nil, err
	}

	var out []string

	for _, table := range tables {
		segments, ok := d.packingList.TableLocations[table]
		if !ok {
			return nil, newError(ErrUnknownTable, "", fmt.Errorf("table %s has no location in this dataset", table))
		}

		for _, seg := range segments {
			cells, err := d.readRecordFields(seg.FileIndex, n)
			if err != nil {
				return nil, err
			}
			if seg.End > len(cells) {
				return nil, newError(ErrIndexInconsistency, "", fmt.Errorf("record %d in file %d has %d columns, segment needs %d", n, seg.FileIndex, len(cells), seg.End))
			}
			out = append(out, cells[seg.Start:seg.End]...)
		}
	}

	return out, nil
}

// readRecordFields seeks to logical record n's offset within tabular
// file fileIndex via a fresh positional read (os.File.ReadAt through an
// io.SectionReader), so concurrent retrieval calls never contend on a
// shared seek cursor, then parses exactly one CSV record starting there
// and asserts its own LOGRECNO column agrees with n.
func (d *IndexedDataset) readRecordFields(fileIndex uint32, n uint64) ([]string, error) {
	positions, ok := d.positions[fileIndex]
	if !ok {
		return nil, newError(ErrIndexInconsistency, "", fmt.Errorf("no position index for tabular file %d", fileIndex))
	}
	offset, ok := positions.get(n)
	if !ok {
		return nil, newError(ErrUnknownLogrecno, "", fmt.Errorf("logical record %d not present in file %d", n, fileIndex))
	}

	f, ok := d.tabular[fileIndex]
	if !ok {
		return nil, newError(ErrIndexInconsistency, "", fmt.Errorf("no open handle for tabular file %d", fileIndex))
	}

	section := io.NewSectionReader(f, int64(offset), fileSize(f)-int64(offset))
	reader := csv.NewReader(section)
	reader.ReuseRecord = false
	reader.FieldsPerRecord = -1

	record, err := reader.Read()
	if err != nil {
		return nil, newError(ErrIndexInconsistency, "", fmt.Errorf("reading record at offset %d in file %d: %w", offset, fileIndex, err))
	}

	if len(record) <= 4 {
		return nil, newError(ErrIndexInconsistency, "", fmt.Errorf("record at offset %d in file %d has only %d columns", offset, fileIndex, len(record)))
	}

	got, err := strconv.ParseUint(strings.TrimSpace(record[4]), 10, 64)
	if err != nil || got != n {
		return nil, newError(ErrIndexInconsistency, "", fmt.Errorf("record at offset %d in file %d has LOGRECNO %q, expected %d", offset, fileIndex, record[4], n))
	}

	return record, nil
}

// fileSize reports f's current size, used to bound the SectionReader a
// positional record read draws from.
func fileSize(f *os.File) int64 {
	fi, err := f.Stat()
	if err != nil {
		return 1 << 40
	}
	return fi.Size()
}

// GetLogicalRecordNumberForGeoid resolves a leaf GEOID to its logical
// record number, failing with UnknownGeoid when the GEOID was filtered
// out at index time (never present) or never existed.
func (d *IndexedDataset) GetLogicalRecordNumberForGeoid(geoid string) (uint64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.requireIndexed(); err != nil {
		return 0, err
	}

	n, ok := d.geoIndex.logrecnoFor(geoid)
	if !ok {
		return 0, newError(ErrUnknownGeoid, "", fmt.Errorf("GEOID %q not found", geoid))
	}
	return n, nil
}

// GetHeaderForGeoid resolves a leaf GEOID's indexed byte offset, reads
// its 500-byte fixed-column line from the geographic header file via a
// positional read, and wraps it in a GeographicHeader view.
func (d *IndexedDataset) GetHeaderForGeoid(geoid string) (*GeographicHeader, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.requireIndexed(); err != nil {
		return nil, err
	}

	offset, ok := d.geoIndex.offsetFor(geoid)
	if !ok {
		return nil, newError(ErrUnknownGeoid, "", fmt.Errorf("GEOID %q not found", geoid))
	}

	buf := make([]byte, HeaderLineLength)
	n, err := d.geoFile.ReadAt(buf, offset)
	if n < HeaderLineLength {
		if err == nil || err == io.EOF {
			err = fmt.Errorf("header line truncated: read %d of %d bytes", n, HeaderLineLength)
		}
		return nil, newErrorAtOffset(ErrIO, d.packingList.Locate(d.packingList.GeographicHeaderFile), offset, err)
	}

	return newGeographicHeader(d.packingList.Schema.Release, string(buf)), nil
}

// Close releases every open file handle. It is safe to call once after
// the dataset is no longer needed, in any state.
func (d *IndexedDataset) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var firstErr error
	for _, f := range d.tabular {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.geoFile != nil {
		if err := d.geoFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
