package thermostat

import (
	"errors"
	"fmt"
	"strings"
)

// ActionKind enumerates the user actions a renderer can send.
type ActionKind string

const (
	// ActionIncrement raises the temperature by one.
	ActionIncrement ActionKind = "increment"
	// ActionDecrement lowers the temperature by one.
	ActionDecrement ActionKind = "decrement"
	// ActionActivateSave switches the machine into saving mode.
	ActionActivateSave ActionKind = "activate_save"
	// ActionSaveSlot stores the current temperature in a slot.
	ActionSaveSlot ActionKind = "save_slot"
	// ActionRecallSlot loads a slot into the current temperature.
	ActionRecallSlot ActionKind = "recall_slot"
	// ActionPressSlot is a slot button press; it is routed to save or recall
	// by the mode of the state it is applied to.
	ActionPressSlot ActionKind = "press_slot"
)

// ErrUnknownAction is returned for action names outside the ActionKind set.
var ErrUnknownAction = errors.New("unknown action")

// Action is one discrete user action.
type Action struct {
	Kind ActionKind
	// Slot is set only for slot actions.
	Slot SlotID
}

// Increment returns the increment action.
func Increment() Action { return Action{Kind: ActionIncrement} }

// Decrement returns the decrement action.
func Decrement() Action { return Action{Kind: ActionDecrement} }

// ActivateSave returns the activate-save-mode action.
func ActivateSave() Action { return Action{Kind: ActionActivateSave} }

// SaveSlot returns the action that stores the current value in id.
func SaveSlot(id SlotID) Action { return Action{Kind: ActionSaveSlot, Slot: id} }

// RecallSlot returns the action that loads id into the current value.
func RecallSlot(id SlotID) Action { return Action{Kind: ActionRecallSlot, Slot: id} }

// PressSlot returns a mode-routed slot button press.
func PressSlot(id SlotID) Action { return Action{Kind: ActionPressSlot, Slot: id} }

// NeedsSlot reports whether the action kind targets a slot.
func (k ActionKind) NeedsSlot() bool {
	switch k {
	case ActionSaveSlot, ActionRecallSlot, ActionPressSlot:
		return true
	default:
		return false
	}
}

// ParseAction builds and validates an action from transport strings.
// The slot argument is ignored for actions that do not target a slot.
func ParseAction(kind, slot string) (Action, error) {
	k := ActionKind(strings.ToLower(strings.TrimSpace(kind)))

	switch k {
	case ActionIncrement, ActionDecrement, ActionActivateSave:
		return Action{Kind: k}, nil
	case ActionSaveSlot, ActionRecallSlot, ActionPressSlot:
		id, err := ParseSlotID(slot)
		if err != nil {
			return Action{}, err
		}

		return Action{Kind: k, Slot: id}, nil
	default:
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}
}

// Validate checks the kind and, for slot actions, the slot id.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionIncrement, ActionDecrement, ActionActivateSave:
		return nil
	case ActionSaveSlot, ActionRecallSlot, ActionPressSlot:
		if !a.Slot.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownSlot, a.Slot)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
}

// String renders the action for logs, e.g. "save_slot(A)".
func (a Action) String() string {
	if a.Kind.NeedsSlot() {
		return fmt.Sprintf("%s(%s)", a.Kind, a.Slot)
	}

	return string(a.Kind)
}
