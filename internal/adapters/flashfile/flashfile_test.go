package flashfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const sectorSize = 4096

func newImage(t *testing.T, sectors int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flash.img")
	if err := os.WriteFile(path, make([]byte, sectors*sectorSize), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCapacityIsFileSize(t *testing.T) {
	m := New(newImage(t, 3), sectorSize)
	if _, err := m.Capacity(); err == nil {
		t.Fatal("capacity must fail before entering programming mode")
	}
	if err := m.EnterProgrammingMode(); err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	size, err := m.Capacity()
	if err != nil {
		t.Fatal(err)
	}
	if size != 3*sectorSize {
		t.Fatalf("capacity: got %d, want %d", size, 3*sectorSize)
	}
}

func TestEraseFillsSectorWithFF(t *testing.T) {
	path := newImage(t, 2)
	m := New(path, sectorSize)
	if err := m.EnterProgrammingMode(); err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if err := m.Erase(sectorSize, sectorSize); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got[:sectorSize], make([]byte, sectorSize)) {
		t.Fatal("sector 0 must be untouched")
	}
	if !bytes.Equal(got[sectorSize:], bytes.Repeat([]byte{0xFF}, sectorSize)) {
		t.Fatal("erased sector must read back 0xFF")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	m := New(newImage(t, 2), sectorSize)
	if err := m.EnterProgrammingMode(); err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	want := bytes.Repeat([]byte{0xA5}, sectorSize)
	if err := m.Erase(0, sectorSize); err != nil {
		t.Fatal(err)
	}
	if err := m.WriteAt(want, 0); err != nil {
		t.Fatal(err)
	}

	got := make([]byte, sectorSize)
	if err := m.ReadAt(got, 0); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("read back content differs")
	}
}

func TestUnalignedAccessRejected(t *testing.T) {
	m := New(newImage(t, 2), sectorSize)
	if err := m.EnterProgrammingMode(); err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if err := m.Erase(100, sectorSize); err == nil {
		t.Fatal("unaligned erase must fail")
	}
	if err := m.WriteAt(make([]byte, sectorSize), 100); err == nil {
		t.Fatal("unaligned write must fail")
	}
}
