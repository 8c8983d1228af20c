package plindex

import (
	"runtime"

	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
)

// denseIndexMemoryBudget is the share of total system memory this
// package is willing to commit to one dense LogicalRecordPositionIndex
// (8 bytes per logical record). Above this, indexing falls back to the
// sparse map representation instead of risking an OOM on a
// memory-constrained host.
const denseIndexMemoryBudget = 0.25

// shouldUseDenseIndex decides whether a position index covering rows
// logical records should be a dense array. The parser always knows rows
// by the time an index is built (packing lists report LINES for every
// file), so the only real constraint is available memory: a dense array
// for a release with hundreds of millions of rows can run into the
// gigabytes, and a host without room for it should transparently get the
// sparse map instead.
func shouldUseDenseIndex(rows uint64) bool {
	if rows == 0 {
		return true
	}
	denseBytes := rows * 8
	budget := uint64(float64(memory.TotalMemory()) * denseIndexMemoryBudget)
	if budget == 0 {
		// memory.TotalMemory() returning 0 means "couldn't determine it";
		// don't let that force every index into the sparse path.
		return true
	}
	return denseBytes <= budget
}

// DefaultConcurrency reports how many files this package should index in
// parallel absent an explicit override: logical CPUs divided by
// threads-per-core, approximating the number of physical cores. Indexing
// one file is I/O- and memory-bandwidth-bound rather than ALU-bound and
// gains little from hyperthread siblings.
func DefaultConcurrency() int {
	nCPU := runtime.NumCPU()
	if nCPU < 1 {
		nCPU = 1
	}
	if cpuid.CPU.ThreadsPerCore > 1 {
		cores := nCPU / cpuid.CPU.ThreadsPerCore
		if cores >= 1 {
			return cores
		}
	}
	return nCPU
}
