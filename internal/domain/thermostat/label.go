package thermostat

import "fmt"

// Label returns the text of the slot button for id in state s.
func Label(s State, id SlotID) string {
	if s.SavingMode {
		return fmt.Sprintf("save to %s", id)
	}

	if value, ok := s.Slot(id); ok {
		return fmt.Sprintf("recall %s (%d°C)", id, value)
	}

	return fmt.Sprintf("%s (no value saved)", id)
}
