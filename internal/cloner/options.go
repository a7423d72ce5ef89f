package cloner

import (
	"github.com/klatu-labs/wincloner/internal/domain"
	"github.com/klatu-labs/wincloner/internal/ports"
	"github.com/klatu-labs/wincloner/pkg/log"
)

// Progress receives one callback per processed sector. It is a display
// hook, not a synchronization point; implementations must not call back
// into the engine.
type Progress func(addr int64, outcome domain.SectorOutcome)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. Defaults to a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) { e.log = logger }
}

// WithProgress sets the per-sector progress callback.
func WithProgress(p Progress) Option {
	return func(e *Engine) { e.progress = p }
}

// WithCalibrationSource sets the calibration source RebuildTable reads the
// frequency offset from. RebuildTable fails without one.
func WithCalibrationSource(src ports.CalibrationSource) Option {
	return func(e *Engine) { e.calib = src }
}

// WithProtectedRegion overrides the region Update never erases or writes.
// Defaults to DefaultProtectedRegion.
func WithProtectedRegion(r domain.Region) Option {
	return func(e *Engine) { e.protected = r }
}
