package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"

	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
	"github.com/oshokin/thermo-slots/internal/logger"
	"github.com/oshokin/thermo-slots/internal/metrics"
)

const (
	// eventArm moves the mode machine from idle to saving.
	eventArm = "arm"
	// eventDisarm moves the mode machine from saving back to idle.
	eventDisarm = "disarm"
)

// newModeMachine builds the idle/saving machine starting in mode.
// Unknown or empty modes start in idle.
func newModeMachine(mode domain.Mode) *fsm.FSM {
	if mode != domain.ModeSaving {
		mode = domain.ModeIdle
	}

	return fsm.NewFSM(
		string(mode),
		fsm.Events{
			{Name: eventArm, Src: []string{string(domain.ModeIdle)}, Dst: string(domain.ModeSaving)},
			{Name: eventDisarm, Src: []string{string(domain.ModeSaving)}, Dst: string(domain.ModeIdle)},
		},
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				logger.DebugKV(ctx, "Mode changed", "from", e.Src, "to", e.Dst, "event", e.Event)
				metrics.ObserveModeTransition(e.Dst)
			},
		},
	)
}

// syncMode fires the event that brings machine to target, if any.
func syncMode(ctx context.Context, machine *fsm.FSM, target domain.Mode) (domain.Mode, error) {
	if domain.Mode(machine.Current()) == target {
		return target, nil
	}

	event := eventDisarm
	if target == domain.ModeSaving {
		event = eventArm
	}

	err := machine.Event(ctx, event)

	var noTransition fsm.NoTransitionError
	if err != nil && !errors.As(err, &noTransition) {
		return domain.Mode(machine.Current()), fmt.Errorf("mode %s: %w", event, err)
	}

	return domain.Mode(machine.Current()), nil
}
