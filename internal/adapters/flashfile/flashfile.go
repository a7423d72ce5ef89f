// Package flashfile adapts a local file or block-device node as the flash
// medium. It is the medium the CLI drives when working against a raw image
// captured from the device, or against a flash exposed by the kernel as a
// block device.
//
// Erase is emulated by filling the sector with 0xFF, which matches the
// erased state of the real part. Capacity is the file size in bytes; there
// is no megabit conversion here because files carry their size directly.
package flashfile

import (
	"fmt"
	"os"
	"sync"
)

// Medium is a file-backed flash medium.
type Medium struct {
	Path       string
	SectorSize int64

	mu   sync.Mutex
	f    *os.File
	size int64
}

// New creates a file-backed medium over path with the given sector size.
// The file is not opened until EnterProgrammingMode.
func New(path string, sectorSize int64) *Medium {
	return &Medium{Path: path, SectorSize: sectorSize}
}

// EnterProgrammingMode opens the backing file read-write and captures its
// size. Calling it again after success reopens the file, so callers should
// gate it behind a session, as the engine does.
func (m *Medium) EnterProgrammingMode() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := os.OpenFile(m.Path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open flash image: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat flash image: %w", err)
	}
	if m.f != nil {
		m.f.Close()
	}
	m.f = f
	m.size = fi.Size()
	return nil
}

// Capacity returns the backing file's size in bytes.
func (m *Medium) Capacity() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return 0, fmt.Errorf("flash image not open")
	}
	return m.size, nil
}

// ReadAt fills p from addr.
func (m *Medium) ReadAt(p []byte, addr int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return fmt.Errorf("flash image not open")
	}
	_, err := m.f.ReadAt(p, addr)
	return err
}

// Erase fills [addr, addr+n) with 0xFF. addr must be sector-aligned and n
// must not exceed the sector size.
func (m *Medium) Erase(addr, n int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return fmt.Errorf("flash image not open")
	}
	if addr%m.SectorSize != 0 {
		return fmt.Errorf("erase at unaligned 0x%x", addr)
	}
	if n <= 0 || n > m.SectorSize {
		return fmt.Errorf("erase length %d exceeds sector size %d", n, m.SectorSize)
	}
	blank := make([]byte, n)
	for i := range blank {
		blank[i] = 0xFF
	}
	_, err := m.f.WriteAt(blank, addr)
	return err
}

// WriteAt writes p at addr and flushes to stable storage.
func (m *Medium) WriteAt(p []byte, addr int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return fmt.Errorf("flash image not open")
	}
	if addr%m.SectorSize != 0 {
		return fmt.Errorf("write at unaligned 0x%x", addr)
	}
	if _, err := m.f.WriteAt(p, addr); err != nil {
		return err
	}
	return m.f.Sync()
}

// Close releases the backing file. The engine never closes its session;
// Close exists for the CLI's process teardown and for tests.
func (m *Medium) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return nil
	}
	err := m.f.Close()
	m.f = nil
	return err
}
