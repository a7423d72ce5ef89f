// Package efuse decodes WINC factory calibration (e-fuse) banks.
//
// The controller exposes six 16-byte banks. Rather than relying on
// memory-layout-dependent bit-field packing, this package reads each field
// through explicit accessors with documented bit offsets and widths:
//
//	byte 0:    bits 0-2 layout version, bits 3-5 bank index,
//	           bit 6 bank-used, bit 7 bank-invalid
//	byte 1:    bits 0-6 PA TX gain correction, bit 7 its used flag
//	bytes 2-3: little-endian; bits 0-14 crystal frequency offset,
//	           bit 15 its used flag
//	bytes 4-9: MAC address
//	byte 10:   bit 0 MAC-address-used flag
//	rest:      reserved
package efuse

import (
	"fmt"

	"github.com/klatu-labs/wincloner/internal/domain"
)

const (
	// BankSize is the byte length of one e-fuse bank.
	BankSize = 16

	// NumBanks is the number of banks the controller carries.
	NumBanks = 6
)

// Bank is one decoded e-fuse bank. The zero value is an empty (unused) bank.
type Bank struct {
	raw [BankSize]byte
}

// ParseBank validates the length of raw and wraps it as a Bank.
func ParseBank(raw []byte) (Bank, error) {
	var b Bank
	if len(raw) != BankSize {
		return b, fmt.Errorf("efuse bank must be %d bytes, got %d", BankSize, len(raw))
	}
	copy(b.raw[:], raw)
	return b, nil
}

// Version returns the 3-bit bank layout version.
func (b Bank) Version() uint8 { return b.raw[0] & 0x07 }

// Index returns the 3-bit bank index the bank claims for itself.
func (b Bank) Index() uint8 { return (b.raw[0] >> 3) & 0x07 }

// Used reports whether the bank has been programmed.
func (b Bank) Used() bool { return b.raw[0]&(1<<6) != 0 }

// Invalid reports whether the bank has been marked as holding bad data.
func (b Bank) Invalid() bool { return b.raw[0]&(1<<7) != 0 }

// TxGainCorrection returns the 7-bit PA TX gain correction and its used flag.
func (b Bank) TxGainCorrection() (uint8, bool) {
	return b.raw[1] & 0x7F, b.raw[1]&(1<<7) != 0
}

// FreqOffset returns the 15-bit crystal frequency offset and its used flag.
func (b Bank) FreqOffset() (uint16, bool) {
	v := uint16(b.raw[2]) | uint16(b.raw[3])<<8
	return v & 0x7FFF, v&(1<<15) != 0
}

// MAC returns the factory MAC address.
func (b Bank) MAC() [6]byte {
	var mac [6]byte
	copy(mac[:], b.raw[4:10])
	return mac
}

// MACUsed reports whether the factory MAC address field is programmed.
func (b Bank) MACUsed() bool { return b.raw[10]&1 != 0 }

// CalibrationRecord converts the bank into the domain calibration record.
// The record is valid only when the bank is used, not invalidated, and the
// frequency-offset field is marked used.
func (b Bank) CalibrationRecord() domain.CalibrationRecord {
	off, used := b.FreqOffset()
	return domain.CalibrationRecord{
		Valid:      b.Used() && !b.Invalid() && used,
		FreqOffset: off,
	}
}
