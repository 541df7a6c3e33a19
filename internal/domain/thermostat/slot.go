package thermostat

import (
	"errors"
	"fmt"
	"strings"
)

// SlotID names one of the fixed memory slots.
type SlotID string

const (
	// SlotA is the first memory slot.
	SlotA SlotID = "A"
	// SlotB is the second memory slot.
	SlotB SlotID = "B"
	// SlotC is the third memory slot.
	SlotC SlotID = "C"

	slotCount = 3
)

// ErrUnknownSlot is returned when a slot id outside A, B, C is requested.
var ErrUnknownSlot = errors.New("unknown slot")

// Slots returns the slot ids in display order.
func Slots() []SlotID {
	return []SlotID{SlotA, SlotB, SlotC}
}

// ParseSlotID converts user input ("a", " B ") into a SlotID.
func ParseSlotID(s string) (SlotID, error) {
	id := SlotID(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := id.index(); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
	}

	return id, nil
}

// Valid reports whether id is one of A, B, C.
func (id SlotID) Valid() bool {
	_, ok := id.index()

	return ok
}

func (id SlotID) index() (int, bool) {
	switch id {
	case SlotA:
		return 0, true
	case SlotB:
		return 1, true
	case SlotC:
		return 2, true
	default:
		return 0, false
	}
}
