// Package ports defines the interfaces (ports) that connect the cloning
// engine to infrastructure adapters.
//
// Ports are the boundaries between the engine core and the outside world:
// they state what the engine needs from the flash medium, the container
// filesystem, and the calibration store without saying how those needs are
// fulfilled.
//
// # Port Interfaces
//
//   - [Medium]: sector-quantized flash store (read/erase/write/capacity)
//   - [ContainerStore]: opens container files for sequential read or write
//   - [CalibrationSource]: delivers the validated calibration record
//
// The engine (internal/cloner) depends only on these interfaces.
// Adapters (internal/adapters, internal/efuse) implement them against the
// local filesystem, an in-memory flash model, or an e-fuse bank image,
// which keeps the engine testable without hardware.
package ports
