package thermostat

import "fmt"

// NoticeKind classifies a message shown to the user after a transition.
type NoticeKind string

const (
	// NoticeNone means there is nothing to show.
	NoticeNone NoticeKind = ""
	// NoticeInfo is a neutral hint.
	NoticeInfo NoticeKind = "info"
	// NoticeSuccess confirms a save or recall.
	NoticeSuccess NoticeKind = "success"
	// NoticeWarning reports a recoverable problem such as an empty slot.
	NoticeWarning NoticeKind = "warning"
)

// Notice is a one-shot message for the render that follows a transition.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Empty reports whether there is nothing to show.
func (n Notice) Empty() bool {
	return n.Kind == NoticeNone
}

func chooseSlotNotice() Notice {
	return Notice{Kind: NoticeInfo, Message: "choose a slot (A, B, C) to save the current temperature"}
}

func savedNotice(id SlotID, value int) Notice {
	return Notice{Kind: NoticeSuccess, Message: fmt.Sprintf("current temperature (%d°C) saved to %s", value, id)}
}

func recalledNotice(id SlotID, value int) Notice {
	return Notice{Kind: NoticeSuccess, Message: fmt.Sprintf("recalled %d°C from %s", value, id)}
}

func emptySlotNotice(id SlotID) Notice {
	return Notice{Kind: NoticeWarning, Message: fmt.Sprintf("no value saved in slot %s", id)}
}
