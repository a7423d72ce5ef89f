package domain

// SectorOutcome is the per-sector result of an update, compare, or
// rebuild pass.
type SectorOutcome int

const (
	// SectorUnchanged means the medium sector already matched the
	// container's content; nothing was written.
	SectorUnchanged SectorOutcome = iota

	// SectorRewritten means the sector differed and was erased and
	// rewritten.
	SectorRewritten

	// SectorSkipped means the sector overlapped the protected region and
	// was left untouched without inspecting its content.
	SectorSkipped

	// SectorDiffers means a compare pass found the sector's content
	// differs from the container. Compare never mutates the medium.
	SectorDiffers
)

// String returns the one-character progress symbol for the outcome,
// matching what the console stream prints per processed sector.
func (o SectorOutcome) String() string {
	switch o {
	case SectorUnchanged:
		return "."
	case SectorRewritten:
		return "!"
	case SectorSkipped:
		return "s"
	case SectorDiffers:
		return "x"
	default:
		return "?"
	}
}
