//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	api "github.com/oshokin/thermo-slots/internal/api/grpc/thermostat"
	"github.com/oshokin/thermo-slots/internal/config"
	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
)

// Client wraps the thermostat gRPC client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the server.
	conn *grpc.ClientConn
	// api is the thermostat service client stub.
	api api.ThermostatServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// actor is sent as metadata on every call when not empty.
	actor string
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor sets the actor reported to the server.
func WithActor(actor string) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errSessionRequired is returned when a call needs a session id and none was given.
	errSessionRequired = errors.New("session id must be provided")
)

// Dial creates a client for the thermostat server at address.
// The connection uses insecure transport credentials; run it on a trusted
// network or behind a TLS-terminating proxy.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial thermostat server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewThermostatServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// CreateSession opens a new session on the server.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.CreateSession(callCtx, new(emptypb.Empty))
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	return resp.GetValue(), nil
}

// GetSnapshot fetches the state of a session. The raw Struct is returned
// alongside for callers that print the wire form.
func (c *Client) GetSnapshot(ctx context.Context, sessionID string) (domain.State, *structpb.Struct, error) {
	if sessionID == "" {
		return domain.State{}, nil, errSessionRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetSnapshot(callCtx, wrapperspb.String(sessionID))
	if err != nil {
		return domain.State{}, nil, fmt.Errorf("get snapshot: %w", err)
	}

	state, err := api.SnapshotFromStruct(resp)
	if err != nil {
		return domain.State{}, nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return state, resp, nil
}

// Dispatch sends one action for a session and returns the new state and notice.
func (c *Client) Dispatch(
	ctx context.Context,
	sessionID string,
	action domain.Action,
) (*DispatchResult, error) {
	if sessionID == "" {
		return nil, errSessionRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.Dispatch(callCtx, api.ActionToStruct(sessionID, action))
	if err != nil {
		return nil, fmt.Errorf("dispatch %s: %w", action, err)
	}

	state, notice, err := api.ResultFromStruct(resp)
	if err != nil {
		return nil, fmt.Errorf("decode dispatch result: %w", err)
	}

	return &DispatchResult{State: state, Notice: notice, Raw: resp}, nil
}

// DispatchResult is the decoded reply of Dispatch.
type DispatchResult struct {
	State  domain.State
	Notice domain.Notice
	// Raw is the reply as received on the wire.
	Raw *structpb.Struct
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The actor is
// attached as outgoing metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.actor != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, ActorMetadataKey, c.actor)
	}

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
