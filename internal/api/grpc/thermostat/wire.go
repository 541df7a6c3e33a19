package thermostat

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
)

// Struct field names used on the wire.
const (
	FieldSessionID  = "session_id"
	FieldAction     = "action"
	FieldSlot       = "slot"
	FieldCurrent    = "current"
	FieldSavingMode = "saving_mode"
	FieldMode       = "mode"
	FieldSlots      = "slots"
	FieldSnapshot   = "snapshot"
	FieldNotice     = "notice"
	FieldKind       = "kind"
	FieldMessage    = "message"
)

// ErrMalformed is returned when a Struct does not have the expected shape.
var ErrMalformed = errors.New("malformed message")

// SnapshotToStruct encodes a state. Empty slots are encoded as null.
func SnapshotToStruct(s domain.State) *structpb.Struct {
	slots := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(domain.Slots()))}

	for _, id := range domain.Slots() {
		if value, ok := s.Slot(id); ok {
			slots.Fields[string(id)] = structpb.NewNumberValue(float64(value))
		} else {
			slots.Fields[string(id)] = structpb.NewNullValue()
		}
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldCurrent:    structpb.NewNumberValue(float64(s.Current)),
			FieldSavingMode: structpb.NewBoolValue(s.SavingMode),
			FieldMode:       structpb.NewStringValue(string(s.Mode())),
			FieldSlots:      structpb.NewStructValue(slots),
		},
	}
}

// SnapshotFromStruct decodes a state encoded by SnapshotToStruct.
func SnapshotFromStruct(st *structpb.Struct) (domain.State, error) {
	fields := st.GetFields()

	current, err := intField(fields, FieldCurrent)
	if err != nil {
		return domain.State{}, err
	}

	savingMode, ok := fields[FieldSavingMode].GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return domain.State{}, fmt.Errorf("%w: %s is not a bool", ErrMalformed, FieldSavingMode)
	}

	saved := make(map[domain.SlotID]int)

	slotFields := fields[FieldSlots].GetStructValue().GetFields()
	for _, id := range domain.Slots() {
		value, present := slotFields[string(id)]
		if !present {
			continue
		}

		if _, isNull := value.GetKind().(*structpb.Value_NullValue); isNull {
			continue
		}

		n, err := intField(slotFields, string(id))
		if err != nil {
			return domain.State{}, err
		}

		saved[id] = n
	}

	return domain.NewState(current, savingMode.BoolValue, saved), nil
}

// ActionToStruct encodes a dispatch request.
func ActionToStruct(sessionID string, a domain.Action) *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldSessionID: structpb.NewStringValue(sessionID),
		FieldAction:    structpb.NewStringValue(string(a.Kind)),
	}

	if a.Kind.NeedsSlot() {
		fields[FieldSlot] = structpb.NewStringValue(string(a.Slot))
	}

	return &structpb.Struct{Fields: fields}
}

// ActionFromStruct decodes and validates a dispatch request.
func ActionFromStruct(st *structpb.Struct) (string, domain.Action, error) {
	fields := st.GetFields()

	sessionID := fields[FieldSessionID].GetStringValue()
	if sessionID == "" {
		return "", domain.Action{}, fmt.Errorf("%w: %s is required", ErrMalformed, FieldSessionID)
	}

	action, err := domain.ParseAction(fields[FieldAction].GetStringValue(), fields[FieldSlot].GetStringValue())
	if err != nil {
		return "", domain.Action{}, err
	}

	return sessionID, action, nil
}

// ResultToStruct encodes the reply of Dispatch.
func ResultToStruct(s domain.State, n domain.Notice) *structpb.Struct {
	notice := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldKind:    structpb.NewStringValue(string(n.Kind)),
			FieldMessage: structpb.NewStringValue(n.Message),
		},
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldSnapshot: structpb.NewStructValue(SnapshotToStruct(s)),
			FieldNotice:   structpb.NewStructValue(notice),
		},
	}
}

// ResultFromStruct decodes the reply of Dispatch.
func ResultFromStruct(st *structpb.Struct) (domain.State, domain.Notice, error) {
	snapshot := st.GetFields()[FieldSnapshot].GetStructValue()
	if snapshot == nil {
		return domain.State{}, domain.Notice{}, fmt.Errorf("%w: %s is required", ErrMalformed, FieldSnapshot)
	}

	state, err := SnapshotFromStruct(snapshot)
	if err != nil {
		return domain.State{}, domain.Notice{}, err
	}

	noticeFields := st.GetFields()[FieldNotice].GetStructValue().GetFields()
	notice := domain.Notice{
		Kind:    domain.NoticeKind(noticeFields[FieldKind].GetStringValue()),
		Message: noticeFields[FieldMessage].GetStringValue(),
	}

	return state, notice, nil
}

// intField reads an integral number field.
func intField(fields map[string]*structpb.Value, name string) (int, error) {
	number, ok := fields[name].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrMalformed, name)
	}

	v := number.NumberValue
	if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrMalformed, name)
	}

	return int(v), nil
}
