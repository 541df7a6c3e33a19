package thermostat

import (
	"errors"
	"fmt"
)

// ErrEmptySlotRecall is reported when a recall targets a slot that holds no value.
// It is a warning: the state is left unchanged and the session stays usable.
var ErrEmptySlotRecall = errors.New("no value saved in slot")

// Policy selects between the two historical behaviours of the widget.
// The zero value is the default contract.
type Policy struct {
	// KeepSavingOnAdjust leaves SavingMode untouched on increment and decrement.
	// By default both cancel an in-progress save selection.
	KeepSavingOnAdjust bool
}

// Increment raises the temperature by one.
func (s State) Increment(p Policy) State {
	s.Current++
	s.SavingMode = s.SavingMode && p.KeepSavingOnAdjust

	return s
}

// Decrement lowers the temperature by one.
func (s State) Decrement(p Policy) State {
	s.Current--
	s.SavingMode = s.SavingMode && p.KeepSavingOnAdjust

	return s
}

// ActivateSaveMode switches to saving mode. Calling it again is a no-op.
func (s State) ActivateSaveMode() State {
	s.SavingMode = true

	return s
}

// SaveToSlot stores the current temperature in id, overwriting any previous
// value, and leaves saving mode. An invalid id returns the state unchanged.
func (s State) SaveToSlot(id SlotID) State {
	i, ok := id.index()
	if !ok {
		return s
	}

	s.slots[i] = slot{value: s.Current, saved: true}
	s.SavingMode = false

	return s
}

// RecallFromSlot loads the value stored in id and leaves saving mode.
// If the slot is empty the state is returned unchanged with ErrEmptySlotRecall.
func (s State) RecallFromSlot(id SlotID) (State, error) {
	value, ok := s.Slot(id)
	if !ok {
		return s, fmt.Errorf("%w %s", ErrEmptySlotRecall, id)
	}

	s.Current = value
	s.SavingMode = false

	return s, nil
}

// Route resolves a slot button press against the state's current mode.
// It is evaluated on every press and never cached.
func Route(s State, id SlotID) Action {
	if s.SavingMode {
		return SaveSlot(id)
	}

	return RecallSlot(id)
}

// Reduce applies a to s and returns the next state with the notice to show.
//
// Invalid actions return s unchanged with an error wrapping ErrUnknownAction or
// ErrUnknownSlot. An empty recall returns s unchanged, a warning notice and an
// error wrapping ErrEmptySlotRecall; callers treat it as non-fatal.
func Reduce(s State, a Action, p Policy) (State, Notice, error) {
	if err := a.Validate(); err != nil {
		return s, Notice{}, err
	}

	if a.Kind == ActionPressSlot {
		a = Route(s, a.Slot)
	}

	switch a.Kind {
	case ActionIncrement:
		return s.Increment(p), Notice{}, nil
	case ActionDecrement:
		return s.Decrement(p), Notice{}, nil
	case ActionActivateSave:
		return s.ActivateSaveMode(), chooseSlotNotice(), nil
	case ActionSaveSlot:
		next := s.SaveToSlot(a.Slot)

		return next, savedNotice(a.Slot, next.Current), nil
	case ActionRecallSlot:
		next, err := s.RecallFromSlot(a.Slot)
		if err != nil {
			return s, emptySlotNotice(a.Slot), err
		}

		return next, recalledNotice(a.Slot, next.Current), nil
	default:
		return s, Notice{}, fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
}
