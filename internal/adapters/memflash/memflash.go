// Package memflash provides an in-memory flash medium that models the
// erase-before-write discipline of the real part. It backs engine tests and
// dry runs without hardware.
package memflash

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotErased is returned by WriteAt when the target sector has not been
// erased since its last write. Real flash can only clear bits; surfacing
// this in the model catches engines that forget the erase step.
var ErrNotErased = errors.New("memflash: sector not erased before write")

// Flash is an in-memory sector-quantized flash store.
type Flash struct {
	mu         sync.Mutex
	data       []byte
	erased     []bool
	sectorSize int64
	entered    bool

	enterErr   error
	enterCalls int
	eraseCount int
	writeCount int
	readErrAt  map[int64]error
}

// New creates a flash of the given capacity, filled with zeros, with no
// sector in the erased state. Capacity must be positive; it need not be a
// sector multiple (the trailing partial sector is addressable).
func New(capacity, sectorSize int64) *Flash {
	sectors := (capacity + sectorSize - 1) / sectorSize
	return &Flash{
		data:       make([]byte, capacity),
		erased:     make([]bool, sectors),
		sectorSize: sectorSize,
		readErrAt:  make(map[int64]error),
	}
}

// EnterProgrammingMode records the mode transition. Fails with the error
// set via FailEnter, if any.
func (f *Flash) EnterProgrammingMode() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enterCalls++
	if f.enterErr != nil {
		return f.enterErr
	}
	f.entered = true
	return nil
}

// Capacity returns the store size in bytes. Only valid in programming mode.
func (f *Flash) Capacity() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.entered {
		return 0, errors.New("memflash: not in programming mode")
	}
	return int64(len(f.data)), nil
}

// ReadAt fills p from addr.
func (f *Flash) ReadAt(p []byte, addr int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.readErrAt[addr]; err != nil {
		return err
	}
	if addr < 0 || addr+int64(len(p)) > int64(len(f.data)) {
		return fmt.Errorf("memflash: read [0x%x,0x%x) out of range", addr, addr+int64(len(p)))
	}
	copy(p, f.data[addr:])
	return nil
}

// Erase fills [addr, addr+n) with 0xFF and marks the sector erased. addr
// must be sector-aligned and n must not cross a sector boundary.
func (f *Flash) Erase(addr, n int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if addr%f.sectorSize != 0 {
		return fmt.Errorf("memflash: erase at unaligned 0x%x", addr)
	}
	if n <= 0 || n > f.sectorSize || addr+n > int64(len(f.data)) {
		return fmt.Errorf("memflash: erase [0x%x,0x%x) out of range", addr, addr+n)
	}
	for i := addr; i < addr+n; i++ {
		f.data[i] = 0xFF
	}
	f.erased[addr/f.sectorSize] = true
	f.eraseCount++
	return nil
}

// WriteAt writes p at addr. addr must be sector-aligned and the sector must
// have been erased since its last write.
func (f *Flash) WriteAt(p []byte, addr int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if addr%f.sectorSize != 0 {
		return fmt.Errorf("memflash: write at unaligned 0x%x", addr)
	}
	if addr+int64(len(p)) > int64(len(f.data)) {
		return fmt.Errorf("memflash: write [0x%x,0x%x) out of range", addr, addr+int64(len(p)))
	}
	sector := addr / f.sectorSize
	if !f.erased[sector] {
		return fmt.Errorf("%w: 0x%x", ErrNotErased, addr)
	}
	copy(f.data[addr:], p)
	f.erased[sector] = false
	f.writeCount++
	return nil
}

// Seed places factory content directly into the store, bypassing the
// erase-before-write model. Test setup only.
func (f *Flash) Seed(addr int64, p []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.data[addr:], p)
}

// Bytes returns a copy of the full store content.
func (f *Flash) Bytes() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, len(f.data))
	copy(out, f.data)
	return out
}

// FailEnter makes subsequent EnterProgrammingMode calls fail with err;
// pass nil to restore success.
func (f *Flash) FailEnter(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enterErr = err
}

// FailReadAt makes reads starting at addr fail with err.
func (f *Flash) FailReadAt(addr int64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErrAt[addr] = err
}

// EnterCalls returns how many times EnterProgrammingMode was invoked.
func (f *Flash) EnterCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enterCalls
}

// EraseCount returns the number of successful sector erases.
func (f *Flash) EraseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.eraseCount
}

// WriteCount returns the number of successful sector writes.
func (f *Flash) WriteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeCount
}
