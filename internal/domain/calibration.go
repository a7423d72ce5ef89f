package domain

// FreqOffsetBits is the width of the crystal frequency-offset field in the
// factory calibration record.
const FreqOffsetBits = 15

// CalibrationRecord is the factory-programmed calibration data the PLL
// synthesizer depends on. FreqOffset is stored unsigned in 15 bits; callers
// that need the signed value use SignedFreqOffset.
type CalibrationRecord struct {
	// Valid is true when the record came from a used, non-invalidated bank
	// and the frequency-offset field is marked used.
	Valid bool

	// FreqOffset is the raw 15-bit crystal offset in steps of 1/64 ppm.
	FreqOffset uint16
}

// SignedFreqOffset sign-extends the 15-bit stored offset. Raw values at or
// above half the range encode negative offsets.
func (r CalibrationRecord) SignedFreqOffset() int32 {
	v := int32(r.FreqOffset)
	if v >= 1<<(FreqOffsetBits-1) {
		v -= 1 << FreqOffsetBits
	}
	return v
}
