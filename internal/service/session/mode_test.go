package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
)

// TestSyncMode follows the target mode and ignores no-op syncs.
func TestSyncMode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	machine := newModeMachine(domain.ModeIdle)

	mode, err := syncMode(ctx, machine, domain.ModeIdle)
	require.NoError(t, err)
	require.Equal(t, domain.ModeIdle, mode)

	mode, err = syncMode(ctx, machine, domain.ModeSaving)
	require.NoError(t, err)
	require.Equal(t, domain.ModeSaving, mode)

	mode, err = syncMode(ctx, machine, domain.ModeSaving)
	require.NoError(t, err)
	require.Equal(t, domain.ModeSaving, mode)

	mode, err = syncMode(ctx, machine, domain.ModeIdle)
	require.NoError(t, err)
	require.Equal(t, domain.ModeIdle, mode)
}

// TestNewModeMachine_UnknownStartsIdle treats missing modes as idle.
func TestNewModeMachine_UnknownStartsIdle(t *testing.T) {
	t.Parallel()

	require.Equal(t, string(domain.ModeIdle), newModeMachine("").Current())
	require.Equal(t, string(domain.ModeSaving), newModeMachine(domain.ModeSaving).Current())
	require.True(t, newModeMachine(domain.ModeIdle).Can(eventArm))
	require.False(t, newModeMachine(domain.ModeIdle).Can(eventDisarm))
}
