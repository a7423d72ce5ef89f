package efuse

import (
	"fmt"
	"os"

	"github.com/klatu-labs/wincloner/internal/domain"
)

// FileSource reads calibration banks from a captured e-fuse image file and
// implements the engine's CalibrationSource port. The image holds up to
// NumBanks consecutive banks; the first used, non-invalidated bank wins,
// matching how the controller firmware loads its registers.
type FileSource struct {
	Path string
}

// ReadRecord scans the bank image and returns the calibration record of the
// first usable bank. A missing or truncated image is an error; an image with
// no usable bank yields a record with Valid = false, which callers needing
// calibration must treat as a hard failure.
func (s FileSource) ReadRecord() (domain.CalibrationRecord, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return domain.CalibrationRecord{}, fmt.Errorf("read efuse image: %w", err)
	}
	if len(raw) < BankSize {
		return domain.CalibrationRecord{}, fmt.Errorf("efuse image too short: %d bytes", len(raw))
	}

	for i := 0; i+BankSize <= len(raw) && i < NumBanks*BankSize; i += BankSize {
		bank, err := ParseBank(raw[i : i+BankSize])
		if err != nil {
			return domain.CalibrationRecord{}, err
		}
		if bank.Used() && !bank.Invalid() {
			return bank.CalibrationRecord(), nil
		}
	}
	return domain.CalibrationRecord{}, nil
}

// Static wraps a fixed record as a CalibrationSource, for tests and for
// forcing a known offset from the command line.
type Static struct {
	Record domain.CalibrationRecord
}

// ReadRecord returns the fixed record.
func (s Static) ReadRecord() (domain.CalibrationRecord, error) {
	return s.Record, nil
}
