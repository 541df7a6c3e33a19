package thermostat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// apply runs a sequence of actions under the default policy and fails on fatal errors.
func apply(t *testing.T, s State, actions ...Action) State {
	t.Helper()

	for _, a := range actions {
		next, _, err := Reduce(s, a, Policy{})
		if err != nil {
			require.ErrorIs(t, err, ErrEmptySlotRecall)
		}

		s = next
	}

	return s
}

// TestIncrementDecrement_Arithmetic checks that n steps move the value by exactly n.
func TestIncrementDecrement_Arithmetic(t *testing.T) {
	t.Parallel()

	for _, start := range []int{-7, 0, 3, 1000} {
		s := State{Current: start}
		for i := 0; i < 5; i++ {
			s = s.Increment(Policy{})
		}

		require.Equal(t, start+5, s.Current)

		for i := 0; i < 12; i++ {
			s = s.Decrement(Policy{})
		}

		require.Equal(t, start-7, s.Current)
	}
}

// TestAdjust_ResetsSavingMode verifies +/- cancel saving mode under the default policy only.
func TestAdjust_ResetsSavingMode(t *testing.T) {
	t.Parallel()

	saving := State{}.ActivateSaveMode()

	require.False(t, saving.Increment(Policy{}).SavingMode)
	require.False(t, saving.Decrement(Policy{}).SavingMode)
	require.False(t, State{}.Increment(Policy{}).SavingMode)

	keep := Policy{KeepSavingOnAdjust: true}
	require.True(t, saving.Increment(keep).SavingMode)
	require.True(t, saving.Decrement(keep).SavingMode)
	require.False(t, State{}.Increment(keep).SavingMode)
}

// TestActivateSaveMode_Idempotent checks that a double press equals a single press.
func TestActivateSaveMode_Idempotent(t *testing.T) {
	t.Parallel()

	s := NewState(4, false, map[SlotID]int{SlotB: 9})

	once := s.ActivateSaveMode()
	twice := once.ActivateSaveMode()

	require.Equal(t, once, twice)
	require.True(t, twice.SavingMode)
	require.Equal(t, s.Current, twice.Current)
	require.Equal(t, s.Saved(), twice.Saved())
}

// TestSaveRecall_Roundtrip checks the save-then-recall law for every slot.
func TestSaveRecall_Roundtrip(t *testing.T) {
	t.Parallel()

	for _, id := range Slots() {
		for _, v := range []int{-40, 0, 21, 451} {
			s := State{Current: v}.ActivateSaveMode().SaveToSlot(id)
			require.False(t, s.SavingMode)

			s = apply(t, s, Increment(), Increment(), Decrement(), Increment())
			require.NotEqual(t, v, s.Current)

			s, err := s.RecallFromSlot(id)
			require.NoError(t, err)
			require.Equal(t, v, s.Current)
		}
	}
}

// TestRecall_EmptySlot verifies the warning path leaves the state untouched.
func TestRecall_EmptySlot(t *testing.T) {
	t.Parallel()

	fresh := State{}

	next, notice, err := Reduce(fresh, RecallSlot(SlotB), Policy{})
	require.ErrorIs(t, err, ErrEmptySlotRecall)
	require.Equal(t, fresh, next)
	require.Equal(t, NoticeWarning, notice.Kind)
	require.Equal(t, "no value saved in slot B", notice.Message)

	// Saving mode survives an empty recall.
	saving := State{Current: 3}.ActivateSaveMode()
	next, _, err = Reduce(saving, RecallSlot(SlotC), Policy{})
	require.ErrorIs(t, err, ErrEmptySlotRecall)
	require.Equal(t, saving, next)
}

// TestScenario_SaveAdjustRecall walks the main save/recall scenario step by step.
func TestScenario_SaveAdjustRecall(t *testing.T) {
	t.Parallel()

	s := State{}

	s = apply(t, s, Increment())
	require.Equal(t, 1, s.Current)

	s = apply(t, s, Increment())
	require.Equal(t, 2, s.Current)

	s = apply(t, s, ActivateSave())
	require.True(t, s.SavingMode)

	s = apply(t, s, SaveSlot(SlotA))
	value, ok := s.Slot(SlotA)
	require.True(t, ok)
	require.Equal(t, 2, value)
	require.False(t, s.SavingMode)

	s = apply(t, s, Decrement())
	require.Equal(t, 1, s.Current)

	s = apply(t, s, RecallSlot(SlotA))
	require.Equal(t, 2, s.Current)
}

// TestScenario_DoublePressSave checks that a double activation still saves exactly once.
func TestScenario_DoublePressSave(t *testing.T) {
	t.Parallel()

	s := State{Current: 5}
	s = apply(t, s, ActivateSave(), ActivateSave(), PressSlot(SlotC))

	value, ok := s.Slot(SlotC)
	require.True(t, ok)
	require.Equal(t, 5, value)
	require.False(t, s.SavingMode)
	require.Equal(t, map[SlotID]int{SlotC: 5}, s.Saved())

	// The next press on the same button recalls instead of saving again.
	s = apply(t, s, Increment(), PressSlot(SlotC))
	require.Equal(t, 5, s.Current)
	require.Equal(t, map[SlotID]int{SlotC: 5}, s.Saved())
}

// TestRoute follows the current mode on every call.
func TestRoute(t *testing.T) {
	t.Parallel()

	s := State{}
	require.Equal(t, RecallSlot(SlotA), Route(s, SlotA))

	s = s.ActivateSaveMode()
	require.Equal(t, SaveSlot(SlotA), Route(s, SlotA))

	s = s.SaveToSlot(SlotA)
	require.Equal(t, RecallSlot(SlotA), Route(s, SlotA))
}

// TestReduce_Notices checks the notice produced by each transition.
func TestReduce_Notices(t *testing.T) {
	t.Parallel()

	s := State{Current: 7}

	_, notice, err := Reduce(s, Increment(), Policy{})
	require.NoError(t, err)
	require.True(t, notice.Empty())

	s, notice, err = Reduce(s, ActivateSave(), Policy{})
	require.NoError(t, err)
	require.Equal(t, NoticeInfo, notice.Kind)

	s, notice, err = Reduce(s, SaveSlot(SlotB), Policy{})
	require.NoError(t, err)
	require.Equal(t, NoticeSuccess, notice.Kind)
	require.Contains(t, notice.Message, "7°C")
	require.Contains(t, notice.Message, "B")

	_, notice, err = Reduce(s, RecallSlot(SlotB), Policy{})
	require.NoError(t, err)
	require.Equal(t, Notice{Kind: NoticeSuccess, Message: "recalled 7°C from B"}, notice)
}

// TestReduce_InvalidAction verifies validation happens before any state change.
func TestReduce_InvalidAction(t *testing.T) {
	t.Parallel()

	s := State{Current: 1}

	next, _, err := Reduce(s, Action{Kind: "explode"}, Policy{})
	require.ErrorIs(t, err, ErrUnknownAction)
	require.Equal(t, s, next)

	next, _, err = Reduce(s, SaveSlot("D"), Policy{})
	require.ErrorIs(t, err, ErrUnknownSlot)
	require.Equal(t, s, next)

	// SaveToSlot ignores ids outside the fixed set.
	require.Equal(t, s, s.SaveToSlot("Z"))
}
