package efuse

import (
	"os"
	"path/filepath"
	"testing"
)

// buildBank assembles a raw bank with the given header flags and a 15-bit
// frequency offset with its used bit.
func buildBank(used, invalid bool, freqOffset uint16, freqUsed bool) []byte {
	raw := make([]byte, BankSize)
	raw[0] = 0x01 // version 1
	if used {
		raw[0] |= 1 << 6
	}
	if invalid {
		raw[0] |= 1 << 7
	}
	v := freqOffset & 0x7FFF
	if freqUsed {
		v |= 1 << 15
	}
	raw[2] = byte(v)
	raw[3] = byte(v >> 8)
	return raw
}

func TestParseBankLength(t *testing.T) {
	if _, err := ParseBank(make([]byte, BankSize-1)); err == nil {
		t.Fatal("expected error for short bank")
	}
	if _, err := ParseBank(make([]byte, BankSize)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBankFieldDecoding(t *testing.T) {
	raw := buildBank(true, false, 0x2ABC, true)
	raw[1] = 0x80 | 0x15 // TX gain correction 0x15, used
	copy(raw[4:10], []byte{0xF8, 0xF0, 0x05, 0xAA, 0xBB, 0xCC})
	raw[10] = 0x01 // MAC programmed

	bank, err := ParseBank(raw)
	if err != nil {
		t.Fatal(err)
	}
	if bank.Version() != 1 {
		t.Fatalf("version: got %d", bank.Version())
	}
	if !bank.Used() || bank.Invalid() {
		t.Fatalf("flags: used=%v invalid=%v", bank.Used(), bank.Invalid())
	}
	if corr, used := bank.TxGainCorrection(); corr != 0x15 || !used {
		t.Fatalf("tx gain: got %#x used=%v", corr, used)
	}
	if off, used := bank.FreqOffset(); off != 0x2ABC || !used {
		t.Fatalf("freq offset: got %#x used=%v", off, used)
	}
	if mac := bank.MAC(); mac[0] != 0xF8 || mac[5] != 0xCC {
		t.Fatalf("mac: got %x", mac)
	}
	if !bank.MACUsed() {
		t.Fatal("mac used flag not decoded")
	}
}

func TestMACUsedDefaultsFalse(t *testing.T) {
	bank, err := ParseBank(buildBank(true, false, 0, true))
	if err != nil {
		t.Fatal(err)
	}
	if bank.MACUsed() {
		t.Fatal("unprogrammed bank must not claim a MAC")
	}
}

func TestCalibrationRecordValidity(t *testing.T) {
	cases := []struct {
		name      string
		used      bool
		invalid   bool
		freqUsed  bool
		wantValid bool
	}{
		{"usable", true, false, true, true},
		{"bank unused", false, false, true, false},
		{"bank invalidated", true, true, true, false},
		{"offset not programmed", true, false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bank, err := ParseBank(buildBank(tc.used, tc.invalid, 0x1000, tc.freqUsed))
			if err != nil {
				t.Fatal(err)
			}
			rec := bank.CalibrationRecord()
			if rec.Valid != tc.wantValid {
				t.Fatalf("valid: got %v, want %v", rec.Valid, tc.wantValid)
			}
		})
	}
}

func TestFileSourceScansBanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "efuse.bin")

	// Bank 0 invalidated, bank 1 unused, bank 2 usable.
	var img []byte
	img = append(img, buildBank(true, true, 0x0001, true)...)
	img = append(img, buildBank(false, false, 0x0002, true)...)
	img = append(img, buildBank(true, false, 0x0123, true)...)
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := FileSource{Path: path}.ReadRecord()
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Valid || rec.FreqOffset != 0x0123 {
		t.Fatalf("got valid=%v offset=%#x", rec.Valid, rec.FreqOffset)
	}
}

func TestFileSourceNoUsableBank(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "efuse.bin")
	if err := os.WriteFile(path, buildBank(true, true, 0x0001, true), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := FileSource{Path: path}.ReadRecord()
	if err != nil {
		t.Fatal(err)
	}
	if rec.Valid {
		t.Fatal("expected invalid record")
	}
}

func TestSignedFreqOffsetRoundTrip(t *testing.T) {
	bank, err := ParseBank(buildBank(true, false, 0x7FFF, true))
	if err != nil {
		t.Fatal(err)
	}
	rec := bank.CalibrationRecord()
	if got := rec.SignedFreqOffset(); got != -1 {
		t.Fatalf("sign extension: got %d, want -1", got)
	}
}
