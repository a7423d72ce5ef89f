// Package cloner implements the sector synchronization engine: it clones the
// contents of a WINC flash medium to and from a container file, rewriting
// only the sectors that differ, and rebuilds the calibration-dependent
// PLL/gain table in place.
//
// All operations are synchronous and run to completion on the calling
// goroutine. The engine owns the medium and the container for the duration
// of one operation and must not be invoked concurrently.
//
// Erase/write cycles are a scarce resource on the underlying flash, so
// Update reads and compares every sector before deciding to erase and
// rewrite it. The protected region (by default the sector holding the
// PLL/gain table) is never touched by Update regardless of content.
package cloner
