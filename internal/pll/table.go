// Package pll synthesizes the WINC radio's PLL/gain lookup table from the
// factory crystal-offset calibration value.
//
// Synthesize is a pure function: the table is consumed by hardware that
// expects bit-exact tuning words, so identical offsets must always produce
// identical bytes. All intermediate arithmetic is IEEE double precision and
// the truncate-vs-round choices below are load-bearing.
package pll

import (
	"encoding/binary"
	"math"
)

const (
	// NumChannels is the number of 2.4 GHz radio channels in the table.
	NumChannels = 14

	// NumFreqs is the number of lookup frequencies; the table carries one
	// extra trailing entry for the compensation frequency.
	NumFreqs = 84

	// wordsPerChannel: one fractional-PLL word, one mixer divider word,
	// three receive-path words, three transmit-path words.
	wordsPerChannel = 8

	// TableMagic marks a synthesized table in flash.
	TableMagic uint32 = 0x12345675

	// TableSize is the fixed byte length of a synthesized table: magic,
	// offset echo, the per-channel parameter array, and the frequency array.
	TableSize = 8 + NumChannels*wordsPerChannel*4 + (NumFreqs+1)*4
)

const (
	// pllEnable is set on every integer/fractional divider word.
	pllEnable uint32 = 1 << 31

	// mixerDither is forced clear on the mixer divider word; the radio's
	// dithering must stay off for cloned images.
	mixerDither uint32 = 1 << 30

	fracBits = 19
	fracMask = 1<<fracBits - 1
)

// channelLO returns the local-oscillator center frequency in MHz for
// channel ch (0-based). Channels step by 10 MHz from 4824.0 except the
// last, which sits at 4968.0 (2.4 GHz channel 14 is off the 5 MHz grid).
func channelLO(ch int) float64 {
	if ch == NumChannels-1 {
		return 4968.0
	}
	return 4824.0 + 10.0*float64(ch)
}

// lookupFreq returns the i-th lookup frequency in MHz. Entries step by
// 2 MHz from 3840.0; index 1 holds the fixed compensation point 4802.0.
func lookupFreq(i int) float64 {
	if i == 1 {
		return 4802.0
	}
	return 3840.0 + 2.0*float64(i)
}

// Synthesize builds the PLL/gain table for the given raw calibration
// offset. The offset is the 15-bit unsigned-stored crystal correction in
// steps of 1/64 ppm; values at or above 2^14 encode negative corrections.
func Synthesize(freqOffset uint16) []byte {
	raw := int32(freqOffset)
	if raw >= 1<<14 {
		raw -= 1 << 15
	}
	xoOffsetPPM := float64(raw) / 64.0
	xoToVco := 52.0 * (1.0 + xoOffsetPPM/1e6)

	buf := make([]byte, TableSize)
	binary.LittleEndian.PutUint32(buf[0:], TableMagic)
	binary.LittleEndian.PutUint32(buf[4:], uint32(freqOffset))

	off := 8
	for ch := 0; ch < NumChannels; ch++ {
		var words [wordsPerChannel]uint32
		channelWords(channelLO(ch), xoToVco, &words)
		for _, w := range words {
			binary.LittleEndian.PutUint32(buf[off:], w)
			off += 4
		}
	}
	for i := 0; i <= NumFreqs; i++ {
		binary.LittleEndian.PutUint32(buf[off:], dividerWord(lookupFreq(i), xoToVco))
		off += 4
	}
	return buf
}

// channelWords fills the 8-word parameter tuple for one channel.
func channelWords(lo, xoToVco float64, words *[wordsPerChannel]uint32) {
	n, m := splitDivider(lo / xoToVco)
	words[0] = pllEnable | n<<fracBits | m

	// The mixer divider is derived from the frequency the quantized PLL
	// word actually produces, not the nominal center.
	loActual := xoToVco * (float64(n) + float64(m)/(1<<fracBits))
	gi, gf := splitDivider(loActual / 80.0)
	words[1] = (pllEnable | gi<<fracBits | gf) &^ mixerDither

	// Receive and transmit paths share the gain derived from the quantized
	// mixer divider.
	gain := float64(gi) + float64(gf)/(1<<fracBits)
	ratio := 60.0 / gain
	a, b, c := gainWords(ratio)
	words[2], words[3], words[4] = a, b, c
	words[5], words[6], words[7] = a, b, c
}

// dividerWord computes the integer/fractional PLL word for one lookup
// frequency.
func dividerWord(freq, xoToVco float64) uint32 {
	n, m := splitDivider(freq / xoToVco)
	return pllEnable | n<<fracBits | m
}

// splitDivider splits a real-valued divider into its truncated integer part
// and its fractional part scaled by 2^19, rounded to nearest. A fraction
// that rounds up to 2^19 carries into the integer part.
func splitDivider(d float64) (n, m uint32) {
	n = uint32(d)
	m = uint32(math.Floor((d-float64(n))*(1<<fracBits) + 0.5))
	if m > fracMask {
		n++
		m = 0
	}
	return n, m
}

// gainWords derives the three tuning words for one signal path:
// the truncated integer part of the ratio, the fractional remainder scaled
// by 2^31 rounded to nearest, and the truncated inverse scaled by 2^22 then
// dropped by 11 bits. Truncation here is deliberate; the hardware tables
// were generated the same way.
func gainWords(ratio float64) (a, b, c uint32) {
	a = uint32(ratio)
	frac := ratio - float64(a)
	r := math.Floor(frac*(1<<31) + 0.5)
	if r >= 1<<31 {
		a++
		r = 0
	}
	b = uint32(r)
	c = uint32(uint64((1.0/ratio)*(1<<22)) >> 11)
	return a, b, c
}
