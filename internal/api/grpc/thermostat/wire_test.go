package thermostat

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
)

// TestSnapshotStruct_NullSlots keeps empty slots distinguishable from zero.
func TestSnapshotStruct_NullSlots(t *testing.T) {
	t.Parallel()

	want := domain.NewState(-3, true, map[domain.SlotID]int{domain.SlotA: 0})

	encoded := SnapshotToStruct(want)
	slots := encoded.GetFields()[FieldSlots].GetStructValue().GetFields()

	_, isNull := slots["B"].GetKind().(*structpb.Value_NullValue)
	require.True(t, isNull)
	require.InDelta(t, 0, slots["A"].GetNumberValue(), 0)

	got, err := SnapshotFromStruct(encoded)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// TestSnapshotFromStruct_Malformed rejects missing and fractional numbers.
func TestSnapshotFromStruct_Malformed(t *testing.T) {
	t.Parallel()

	_, err := SnapshotFromStruct(new(structpb.Struct))
	require.ErrorIs(t, err, ErrMalformed)

	st, err := structpb.NewStruct(map[string]any{
		FieldCurrent:    1.5,
		FieldSavingMode: false,
	})
	require.NoError(t, err)

	_, err = SnapshotFromStruct(st)
	require.ErrorIs(t, err, ErrMalformed)

	st, err = structpb.NewStruct(map[string]any{
		FieldCurrent:    1,
		FieldSavingMode: false,
		FieldSlots:      map[string]any{"A": "warm"},
	})
	require.NoError(t, err)

	_, err = SnapshotFromStruct(st)
	require.ErrorIs(t, err, ErrMalformed)
}

// TestActionFromStruct requires a session id and a valid action.
func TestActionFromStruct(t *testing.T) {
	t.Parallel()

	id, action, err := ActionFromStruct(ActionToStruct("s1", domain.PressSlot(domain.SlotC)))
	require.NoError(t, err)
	require.Equal(t, "s1", id)
	require.Equal(t, domain.PressSlot(domain.SlotC), action)

	_, _, err = ActionFromStruct(ActionToStruct("", domain.Increment()))
	require.ErrorIs(t, err, ErrMalformed)

	// Non-slot actions carry no slot field.
	_, hasSlot := ActionToStruct("s1", domain.Increment()).GetFields()[FieldSlot]
	require.False(t, hasSlot)
}
