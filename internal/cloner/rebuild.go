package cloner

import (
	"bytes"
	"fmt"

	"github.com/klatu-labs/wincloner/internal/domain"
	"github.com/klatu-labs/wincloner/internal/pll"
	"github.com/klatu-labs/wincloner/pkg/log"
)

// RebuildTable resynthesizes the PLL/gain table from the calibration record
// and writes it into the protected sector, leaving the rest of that sector
// untouched. The write follows the same read-compare-erase-write policy as
// Update: if the freshly synthesized table already matches flash, nothing
// is written.
func (e *Engine) RebuildTable() (domain.SectorOutcome, error) {
	if _, err := e.session.ensureReady(); err != nil {
		return domain.SectorUnchanged, err
	}
	if e.calib == nil {
		return domain.SectorUnchanged, fmt.Errorf("%w: no calibration source configured", domain.ErrCalibrationInvalid)
	}
	rec, err := e.calib.ReadRecord()
	if err != nil {
		return domain.SectorUnchanged, fmt.Errorf("%w: %v", domain.ErrCalibrationInvalid, err)
	}
	if !rec.Valid {
		return domain.SectorUnchanged, domain.ErrCalibrationInvalid
	}

	addr := e.protected.Offset
	if err := e.medium.ReadAt(e.buf2[:SectorSize], addr); err != nil {
		return domain.SectorUnchanged, &domain.MediumIOError{Op: "read", Addr: addr, Err: err}
	}

	// Overlay the synthesized table onto the sector image; trailing bytes
	// of the sector (the gain tables) stay as read.
	copy(e.buf[:SectorSize], e.buf2[:SectorSize])
	copy(e.buf[:pll.TableSize], pll.Synthesize(rec.FreqOffset))

	if bytes.Equal(e.buf[:SectorSize], e.buf2[:SectorSize]) {
		e.report(addr, domain.SectorUnchanged)
		e.log.Info("pll table already current",
			log.Int("offset", int(rec.FreqOffset)),
		)
		return domain.SectorUnchanged, nil
	}

	if err := e.rewriteSector(addr, e.buf[:SectorSize]); err != nil {
		return domain.SectorUnchanged, err
	}
	e.report(addr, domain.SectorRewritten)
	e.log.Info("pll table rebuilt",
		log.Hex("addr", addr),
		log.Int("offset", int(rec.FreqOffset)),
	)
	return domain.SectorRewritten, nil
}
