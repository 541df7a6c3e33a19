package thermostat

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
	"github.com/oshokin/thermo-slots/internal/logger"
	"github.com/oshokin/thermo-slots/internal/service/session"
)

// Service abstracts the session operations the transport layer depends on.
type Service interface {
	CreateSession(ctx context.Context) (string, domain.State, error)
	GetSnapshot(ctx context.Context, sessionID string) (domain.State, error)
	Dispatch(ctx context.Context, sessionID string, action domain.Action) (domain.State, domain.Notice, error)
}

// Server implements ThermostatServiceServer.
type Server struct {
	// service provides the session operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// CreateSession opens a new session.
func (s *Server) CreateSession(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	id, _, err := s.service.CreateSession(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return wrapperspb.String(id), nil
}

// GetSnapshot returns the state of the session named in req.
func (s *Server) GetSnapshot(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "session id is required")
	}

	state, err := s.service.GetSnapshot(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return SnapshotToStruct(state), nil
}

// Dispatch applies the action described by req.
func (s *Server) Dispatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	sessionID, action, err := ActionFromStruct(req)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	state, notice, err := s.service.Dispatch(ctx, sessionID, action)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return ResultToStruct(state, notice), nil
}

// toStatus maps service and domain errors to gRPC status codes.
func toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrUnknownAction),
		errors.Is(err, domain.ErrUnknownSlot),
		errors.Is(err, ErrMalformed):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		logger.ErrorKV(ctx, "Thermostat request failed", "error", err)

		return status.Error(codes.Internal, "unable to process request")
	}
}
