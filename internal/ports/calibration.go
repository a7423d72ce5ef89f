package ports

import "github.com/klatu-labs/wincloner/internal/domain"

// CalibrationSource delivers the factory calibration record. Implementations
// read e-fuse banks or a captured bank image; the engine treats the record
// as authoritative only when its Valid flag holds.
type CalibrationSource interface {
	ReadRecord() (domain.CalibrationRecord, error)
}
