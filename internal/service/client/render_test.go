package client

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
)

// TestRender_Idle prints recall labels and no notice line.
func TestRender_Idle(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	s := domain.NewState(3, false, map[domain.SlotID]int{domain.SlotB: 20})
	require.NoError(t, Render(&out, s, domain.Notice{}))

	require.Equal(t,
		"Current temperature: 3°C\n"+
			"Mode: idle (press a slot to recall it)\n"+
			"[A (no value saved)] [recall B (20°C)] [C (no value saved)]\n",
		out.String(),
	)
}

// TestRender_SavingWithNotice prints the notice first and save labels.
func TestRender_SavingWithNotice(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	s := domain.State{Current: -1}.ActivateSaveMode()
	notice := domain.Notice{Kind: domain.NoticeInfo, Message: "choose a slot"}
	require.NoError(t, Render(&out, s, notice))

	require.Contains(t, out.String(), "[info] choose a slot\n")
	require.Contains(t, out.String(), "Mode: saving")
	require.Contains(t, out.String(), "[save to A] [save to B] [save to C]")
}
