package domain

// Region is a half-open byte range [Offset, Offset+Size) in the medium's
// address space.
type Region struct {
	Offset int64
	Size   int64
}

// Intersects reports whether the region overlaps [addr, addr+n).
func (r Region) Intersects(addr, n int64) bool {
	if r.Size <= 0 || n <= 0 {
		return false
	}
	return addr < r.Offset+r.Size && r.Offset < addr+n
}

// Contains reports whether addr lies inside the region.
func (r Region) Contains(addr int64) bool {
	return addr >= r.Offset && addr < r.Offset+r.Size
}
