package client

import (
	"fmt"
	"io"
	"strings"

	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
)

// Render writes the text panel for s, with n above it when present.
func Render(w io.Writer, s domain.State, n domain.Notice) error {
	var b strings.Builder

	if !n.Empty() {
		fmt.Fprintf(&b, "[%s] %s\n", n.Kind, n.Message)
	}

	fmt.Fprintf(&b, "Current temperature: %d°C\n", s.Current)

	if s.SavingMode {
		b.WriteString("Mode: saving (press a slot to store the current value)\n")
	} else {
		b.WriteString("Mode: idle (press a slot to recall it)\n")
	}

	labels := make([]string, 0, len(domain.Slots()))
	for _, id := range domain.Slots() {
		labels = append(labels, "["+domain.Label(s, id)+"]")
	}

	b.WriteString(strings.Join(labels, " "))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())

	return err
}
