package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the wincloner domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrMediumUnavailable is returned when the medium could not be placed
	// into programmable mode.
	ErrMediumUnavailable = errors.New("wincloner: medium unavailable")

	// ErrContainerOpen is returned when the container file could not be opened.
	ErrContainerOpen = errors.New("wincloner: cannot open container")

	// ErrCalibrationInvalid is returned by RebuildTable when the calibration
	// record is unreadable or its frequency-offset field is not marked used.
	ErrCalibrationInvalid = errors.New("wincloner: calibration record invalid")

	// ErrUnaligned is returned when an erase or write is requested at an
	// address that is not a sector boundary. Correct chunking makes this
	// unreachable; seeing it means an engine bug, not an operator mistake.
	ErrUnaligned = errors.New("wincloner: unaligned medium access")
)

// MediumIOError reports a failed read, erase, or write on the medium,
// carrying the address for diagnostics.
type MediumIOError struct {
	Op   string // "read", "erase" or "write"
	Addr int64
	Err  error
}

func (e *MediumIOError) Error() string {
	return fmt.Sprintf("medium %s at 0x%x: %v", e.Op, e.Addr, e.Err)
}

func (e *MediumIOError) Unwrap() error { return e.Err }

// ContainerIOError reports a failed read or write on the container.
type ContainerIOError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *ContainerIOError) Error() string {
	return fmt.Sprintf("container %s: %v", e.Op, e.Err)
}

func (e *ContainerIOError) Unwrap() error { return e.Err }
