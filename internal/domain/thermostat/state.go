package thermostat

// Mode is the name of the machine state derived from SavingMode.
type Mode string

const (
	// ModeIdle means slot presses recall values.
	ModeIdle Mode = "idle"
	// ModeSaving means the next slot press stores the current value.
	ModeSaving Mode = "saving"
)

// slot holds at most one saved temperature.
type slot struct {
	value int
	saved bool
}

// State is the complete state of one session.
// The zero value is the initial state: temperature 0, all slots empty, idle mode.
// State is a value type; every transition returns a new copy.
type State struct {
	// Current is the current temperature reading. It is unbounded.
	Current int
	// SavingMode is true while the next slot press performs a save.
	SavingMode bool

	slots [slotCount]slot
}

// NewState builds a state from its parts, ignoring unknown slot ids.
// It is used by transports to rebuild a snapshot received over the wire.
func NewState(current int, savingMode bool, saved map[SlotID]int) State {
	s := State{
		Current:    current,
		SavingMode: savingMode,
	}

	for id, value := range saved {
		if i, ok := id.index(); ok {
			s.slots[i] = slot{value: value, saved: true}
		}
	}

	return s
}

// Slot returns the value stored in the slot and whether anything was saved there.
func (s State) Slot(id SlotID) (int, bool) {
	i, ok := id.index()
	if !ok {
		return 0, false
	}

	return s.slots[i].value, s.slots[i].saved
}

// Saved returns a copy of all filled slots.
func (s State) Saved() map[SlotID]int {
	result := make(map[SlotID]int, slotCount)

	for _, id := range Slots() {
		if value, ok := s.Slot(id); ok {
			result[id] = value
		}
	}

	return result
}

// Mode returns ModeSaving or ModeIdle depending on SavingMode.
func (s State) Mode() Mode {
	if s.SavingMode {
		return ModeSaving
	}

	return ModeIdle
}
