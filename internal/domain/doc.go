// Package domain contains the core entities and value objects for wincloner.
//
// This is the innermost layer: it knows nothing about files, SPI buses,
// logging, or the CLI, and contains only the types the engine reasons
// about.
//
// # Entities
//
//   - [Region]: a half-open byte range in the medium's address space,
//     used to protect the PLL/gain table sector from updates
//   - [CalibrationRecord]: the validated factory calibration data
//     carrying the 15-bit crystal frequency offset
//   - [SectorOutcome]: the per-sector result of an update or compare pass
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain
