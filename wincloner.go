// Package wincloner clones the contents of a WINC1500 Wi-Fi controller's
// SPI flash to and from a container file, rewriting only the sectors that
// differ, and rebuilds the calibration-dependent PLL/gain table.
//
// Example usage:
//
//	medium := flashfile.New("/dev/mtdblock3", wincloner.SectorSize)
//	eng := wincloner.New(medium, filestore.Store{},
//	    wincloner.WithCalibrationSource(efuse.FileSource{Path: "efuse.bin"}),
//	)
//	if _, err := eng.Extract("winc.img"); err != nil {
//	    log.Fatal(err)
//	}
package wincloner

import (
	"github.com/klatu-labs/wincloner/internal/cloner"
	"github.com/klatu-labs/wincloner/internal/domain"
	"github.com/klatu-labs/wincloner/internal/ports"
)

// SectorSize is the WINC flash erase/write unit in bytes.
const SectorSize = cloner.SectorSize

type (
	// Engine is the sector synchronization engine.
	Engine = cloner.Engine

	// Stats aggregates per-sector outcomes of one engine operation.
	Stats = cloner.Stats

	// Option configures an Engine.
	Option = cloner.Option

	// Progress receives one callback per processed sector.
	Progress = cloner.Progress

	// Region is a half-open byte range in the medium's address space.
	Region = domain.Region

	// SectorOutcome is the per-sector result of an engine pass.
	SectorOutcome = domain.SectorOutcome

	// CalibrationRecord is the factory calibration data for the PLL table.
	CalibrationRecord = domain.CalibrationRecord

	// Medium is the sector-quantized flash store the engine drives.
	Medium = ports.Medium

	// ContainerStore opens container files for one engine operation.
	ContainerStore = ports.ContainerStore

	// CalibrationSource delivers the validated calibration record.
	CalibrationSource = ports.CalibrationSource
)

// New creates an engine over the given medium and container store.
func New(medium Medium, store ContainerStore, opts ...Option) *Engine {
	return cloner.New(medium, store, opts...)
}

// Re-exported engine options.
var (
	WithLogger            = cloner.WithLogger
	WithProgress          = cloner.WithProgress
	WithCalibrationSource = cloner.WithCalibrationSource
	WithProtectedRegion   = cloner.WithProtectedRegion
)

// DefaultProtectedRegion is the flash sector holding the PLL/gain tables.
var DefaultProtectedRegion = cloner.DefaultProtectedRegion

// Sentinel errors surfaced by engine operations.
var (
	ErrMediumUnavailable  = domain.ErrMediumUnavailable
	ErrContainerOpen      = domain.ErrContainerOpen
	ErrCalibrationInvalid = domain.ErrCalibrationInvalid
)
