package thermostat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
	"github.com/oshokin/thermo-slots/internal/service/session"
)

var errTestBackend = errors.New("backend exploded")

// fakeService implements Service over a single in-memory state for unit testing the transport.
type fakeService struct {
	// state is the only session's state.
	state domain.State
	// dispatchErr, when set, is returned from Dispatch.
	dispatchErr error
}

// CreateSession always returns the id "fake".
func (f *fakeService) CreateSession(context.Context) (string, domain.State, error) {
	return "fake", f.state, nil
}

// GetSnapshot returns the state for "fake" and ErrSessionNotFound otherwise.
func (f *fakeService) GetSnapshot(_ context.Context, id string) (domain.State, error) {
	if id != "fake" {
		return domain.State{}, fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}

	return f.state, nil
}

// Dispatch runs the reducer with the default policy.
func (f *fakeService) Dispatch(_ context.Context, id string, a domain.Action) (domain.State, domain.Notice, error) {
	if f.dispatchErr != nil {
		return domain.State{}, domain.Notice{}, f.dispatchErr
	}

	if id != "fake" {
		return domain.State{}, domain.Notice{}, session.ErrSessionNotFound
	}

	next, notice, err := domain.Reduce(f.state, a, domain.Policy{})
	if err != nil && !errors.Is(err, domain.ErrEmptySlotRecall) {
		return domain.State{}, domain.Notice{}, err
	}

	f.state = next

	return next, notice, nil
}

// TestServer_Roundtrip drives a session through create, dispatch and snapshot.
func TestServer_Roundtrip(t *testing.T) {
	t.Parallel()

	s := NewServer(new(fakeService))
	ctx := context.Background()

	id, err := s.CreateSession(ctx, new(emptypb.Empty))
	require.NoError(t, err)
	require.Equal(t, "fake", id.GetValue())

	for _, a := range []domain.Action{domain.Increment(), domain.ActivateSave(), domain.PressSlot(domain.SlotB)} {
		_, err = s.Dispatch(ctx, ActionToStruct(id.GetValue(), a))
		require.NoError(t, err)
	}

	reply, err := s.Dispatch(ctx, ActionToStruct(id.GetValue(), domain.RecallSlot(domain.SlotA)))
	require.NoError(t, err)

	state, notice, err := ResultFromStruct(reply)
	require.NoError(t, err)
	require.Equal(t, domain.NoticeWarning, notice.Kind)
	require.Equal(t, 1, state.Current)

	snapshot, err := s.GetSnapshot(ctx, wrapperspb.String(id.GetValue()))
	require.NoError(t, err)

	state, err = SnapshotFromStruct(snapshot)
	require.NoError(t, err)
	require.Equal(t, map[domain.SlotID]int{domain.SlotB: 1}, state.Saved())
	require.Equal(t, string(domain.ModeIdle), snapshot.GetFields()[FieldMode].GetStringValue())
}

// TestServer_Validation ensures bad requests map to InvalidArgument and unknown sessions to NotFound.
func TestServer_Validation(t *testing.T) {
	t.Parallel()

	s := NewServer(new(fakeService))
	ctx := context.Background()

	_, err := s.Dispatch(ctx, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.Dispatch(ctx, new(structpb.Struct))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.Dispatch(ctx, ActionToStruct("fake", domain.SaveSlot("D")))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.Dispatch(ctx, ActionToStruct("fake", domain.Action{Kind: "boil"}))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.GetSnapshot(ctx, wrapperspb.String(""))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.GetSnapshot(ctx, wrapperspb.String("ghost"))
	require.Equal(t, codes.NotFound, status.Code(err))
}

// TestServer_InternalErrorsAreMasked hides backend details from clients.
func TestServer_InternalErrorsAreMasked(t *testing.T) {
	t.Parallel()

	s := NewServer(&fakeService{dispatchErr: errTestBackend})

	_, err := s.Dispatch(context.Background(), ActionToStruct("fake", domain.Increment()))
	require.Equal(t, codes.Internal, status.Code(err))
	require.NotContains(t, err.Error(), errTestBackend.Error())
}
