package web

import (
	"encoding/gob"

	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
)

// flashNotice is a notice stored in the cookie between a post and the next render.
type flashNotice struct {
	Kind    string
	Message string
}

func init() { //nolint:gochecknoinits // Cookie sessions encode flashes with gob.
	gob.Register(flashNotice{})
}

// toFlash converts a domain notice.
func toFlash(n domain.Notice) flashNotice {
	return flashNotice{Kind: string(n.Kind), Message: n.Message}
}

// fromFlashes keeps only values that are flash notices.
func fromFlashes(values []any) []flashNotice {
	notices := make([]flashNotice, 0, len(values))

	for _, v := range values {
		if n, ok := v.(flashNotice); ok {
			notices = append(notices, n)
		}
	}

	return notices
}
