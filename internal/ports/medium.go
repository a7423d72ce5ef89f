package ports

// Medium provides access to an addressable, erase-before-write flash store,
// logically partitioned into fixed-size sectors.
//
// Capacity is always expressed in BYTES. Adapters wrapping controllers that
// report size in megabits (the WINC1500 convention, spi_flash_get_size())
// must convert themselves: bytes = megabits << 17.
type Medium interface {
	// EnterProgrammingMode places the device into a state where sector I/O
	// is possible. The engine calls this at most once per session; the
	// primitive may be unsafe to invoke repeatedly in rapid succession.
	EnterProgrammingMode() error

	// Capacity returns the total size of the store in bytes. Only valid
	// after EnterProgrammingMode has succeeded.
	Capacity() (int64, error)

	// ReadAt fills p with the bytes starting at addr. Reads may be smaller
	// than a sector for the final partial chunk.
	ReadAt(p []byte, addr int64) error

	// Erase erases [addr, addr+n). addr must be sector-aligned and n must
	// be at most the sector size, short only for the trailing partial
	// sector of a store whose capacity is not a sector multiple. Erase
	// must precede any write that changes content.
	Erase(addr, n int64) error

	// WriteAt writes p starting at addr. addr must be sector-aligned and
	// len(p) must be at most the sector size, short only for the trailing
	// partial sector.
	WriteAt(p []byte, addr int64) error
}
