package cloner

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klatu-labs/wincloner/internal/domain"
	"github.com/klatu-labs/wincloner/internal/ports"
	"github.com/klatu-labs/wincloner/pkg/log"
)

// SectorSize is the WINC flash erase/write unit.
const SectorSize = 4096

// DefaultProtectedRegion is the flash sector holding the PLL/gain tables.
// It sits directly after the boot sector and must survive firmware updates,
// since the table depends on the individual device's crystal calibration.
var DefaultProtectedRegion = domain.Region{Offset: 0x1000, Size: 0x1000}

// Stats aggregates per-sector outcomes of one engine operation.
type Stats struct {
	Unchanged int
	Rewritten int
	Skipped   int
	Differing int
}

// Engine is the sector synchronization engine. It is not safe for
// concurrent use: each operation owns the medium and the container for its
// full duration.
type Engine struct {
	medium    ports.Medium
	store     ports.ContainerStore
	calib     ports.CalibrationSource
	session   *session
	protected domain.Region
	log       log.Logger
	progress  Progress

	// Scratch sector buffers, allocated once and reused across operations.
	buf  []byte
	buf2 []byte
}

// New creates an engine over the given medium and container store.
func New(medium ports.Medium, store ports.ContainerStore, opts ...Option) *Engine {
	e := &Engine{
		medium:    medium,
		store:     store,
		session:   newSession(medium),
		protected: DefaultProtectedRegion,
		log:       log.NewNoopLogger(),
		buf:       make([]byte, SectorSize),
		buf2:      make([]byte, SectorSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract copies the entire medium into the container at path, sequentially
// from address 0 through the full reported capacity.
func (e *Engine) Extract(path string) (Stats, error) {
	var st Stats
	capacity, err := e.session.ensureReady()
	if err != nil {
		return st, err
	}
	w, err := e.store.OpenWrite(path)
	if err != nil {
		return st, fmt.Errorf("%w: %v", domain.ErrContainerOpen, err)
	}
	defer w.Close()

	for addr := int64(0); addr < capacity; {
		n := chunkLen(capacity, addr)
		if err := e.medium.ReadAt(e.buf[:n], addr); err != nil {
			return st, &domain.MediumIOError{Op: "read", Addr: addr, Err: err}
		}
		if _, err := w.Write(e.buf[:n]); err != nil {
			return st, &domain.ContainerIOError{Op: "write", Err: err}
		}
		st.Unchanged++
		e.report(addr, domain.SectorUnchanged)
		addr += n
	}

	e.log.Info("extract complete",
		log.String("container", path),
		log.Int64("bytes", capacity),
	)
	return st, nil
}

// Update rewrites medium sectors from the container at path. Sectors that
// intersect the protected region are skipped without inspection; all others
// are read back and only erased and rewritten when their content differs.
func (e *Engine) Update(path string) (Stats, error) {
	var st Stats
	capacity, err := e.session.ensureReady()
	if err != nil {
		return st, err
	}
	r, err := e.store.OpenRead(path)
	if err != nil {
		return st, fmt.Errorf("%w: %v", domain.ErrContainerOpen, err)
	}
	defer r.Close()

	for addr := int64(0); addr < capacity; {
		n := chunkLen(capacity, addr)
		if _, err := io.ReadFull(r, e.buf[:n]); err != nil {
			return st, &domain.ContainerIOError{Op: "read", Err: err}
		}

		// The container read still advances past protected chunks; only
		// the medium is left untouched.
		if e.protected.Intersects(addr, n) {
			st.Skipped++
			e.report(addr, domain.SectorSkipped)
			addr += n
			continue
		}

		if err := e.medium.ReadAt(e.buf2[:n], addr); err != nil {
			return st, &domain.MediumIOError{Op: "read", Addr: addr, Err: err}
		}
		if bytes.Equal(e.buf[:n], e.buf2[:n]) {
			st.Unchanged++
			e.report(addr, domain.SectorUnchanged)
			addr += n
			continue
		}

		if err := e.rewriteSector(addr, e.buf[:n]); err != nil {
			return st, err
		}
		st.Rewritten++
		e.report(addr, domain.SectorRewritten)
		addr += n
	}

	e.log.Info("update complete",
		log.String("container", path),
		log.Int("rewritten", st.Rewritten),
		log.Int("unchanged", st.Unchanged),
		log.Int("skipped", st.Skipped),
	)
	return st, nil
}

// Compare reads matching sector-sized chunks from the container and the
// medium and reports which sectors differ. Content differences are not an
// error; only I/O failures are. The medium is never mutated.
func (e *Engine) Compare(path string) (Stats, error) {
	var st Stats
	capacity, err := e.session.ensureReady()
	if err != nil {
		return st, err
	}
	r, err := e.store.OpenRead(path)
	if err != nil {
		return st, fmt.Errorf("%w: %v", domain.ErrContainerOpen, err)
	}
	defer r.Close()

	for addr := int64(0); addr < capacity; {
		n := chunkLen(capacity, addr)
		if _, err := io.ReadFull(r, e.buf[:n]); err != nil {
			return st, &domain.ContainerIOError{Op: "read", Err: err}
		}
		if err := e.medium.ReadAt(e.buf2[:n], addr); err != nil {
			return st, &domain.MediumIOError{Op: "read", Addr: addr, Err: err}
		}
		if bytes.Equal(e.buf[:n], e.buf2[:n]) {
			st.Unchanged++
			e.report(addr, domain.SectorUnchanged)
		} else {
			st.Differing++
			e.report(addr, domain.SectorDiffers)
			e.log.Debug("sector differs", log.Hex("addr", addr))
		}
		addr += n
	}

	e.log.Info("compare complete",
		log.String("container", path),
		log.Int("identical", st.Unchanged),
		log.Int("differing", st.Differing),
	)
	return st, nil
}

// rewriteSector erases and writes one sector. addr comes from sector-sized
// chunking, so misalignment here is an engine bug, not an operator mistake.
func (e *Engine) rewriteSector(addr int64, p []byte) error {
	if addr%SectorSize != 0 {
		return fmt.Errorf("%w: 0x%x", domain.ErrUnaligned, addr)
	}
	if err := e.medium.Erase(addr, int64(len(p))); err != nil {
		return &domain.MediumIOError{Op: "erase", Addr: addr, Err: err}
	}
	if err := e.medium.WriteAt(p, addr); err != nil {
		return &domain.MediumIOError{Op: "write", Addr: addr, Err: err}
	}
	return nil
}

func (e *Engine) report(addr int64, outcome domain.SectorOutcome) {
	if e.progress != nil {
		e.progress(addr, outcome)
	}
}

// chunkLen clamps the remaining byte count at addr to one sector.
func chunkLen(capacity, addr int64) int64 {
	n := capacity - addr
	if n > SectorSize {
		n = SectorSize
	}
	return n
}
