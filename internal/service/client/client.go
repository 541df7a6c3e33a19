package client

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap/zapcore"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/oshokin/thermo-slots/internal/config"
	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
	"github.com/oshokin/thermo-slots/internal/logger"
	"github.com/oshokin/thermo-slots/internal/service/common"
)

// Options configures one thermoctl invocation.
type Options struct {
	// ConfigPath to YAML settings file; a missing file means defaults.
	ConfigPath string
	// ServerAddress overrides grpc_addr from config when specified.
	ServerAddress string
	// SessionID is the session to act on. Empty for NewSession.
	SessionID string
	// JSON prints the wire reply as JSON instead of the panel.
	JSON bool
	// Out receives the rendered output. Defaults to stdout.
	Out io.Writer
	// Verbose lets info and debug logs through next to the panel.
	Verbose bool
}

// scope names the command logger and keeps it quiet unless verbose.
func scope(ctx context.Context, opts *Options) context.Context {
	ctx = logger.WithName(ctx, "thermoctl")
	if opts.Verbose {
		return ctx
	}

	return logger.WithMinLevel(ctx, zapcore.WarnLevel)
}

// connect loads settings and dials the server.
func connect(ctx context.Context, opts *Options) (*common.Client, error) {
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	serverAddress := cfg.GRPCAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	clientOptions := []common.Option{common.WithCallTimeout(cfg.Timeout)}

	// Audit metadata is best effort.
	if actor, err := common.DetectActor(); err == nil {
		clientOptions = append(clientOptions, common.WithActor(actor))
	} else {
		logger.DebugKV(ctx, "Actor detection failed", "error", err)
	}

	return common.Dial(ctx, serverAddress, clientOptions...)
}

// output returns the configured writer or stdout.
func (o *Options) output() io.Writer {
	if o.Out != nil {
		return o.Out
	}

	return os.Stdout
}

// NewSession opens a session and prints its id.
func NewSession(ctx context.Context, opts *Options) error {
	ctx = scope(ctx, opts)

	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	id, err := client.CreateSession(ctx)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Session opened", "session_id", id)

	_, err = fmt.Fprintln(opts.output(), id)

	return err
}

// Show prints the current panel of a session.
func Show(ctx context.Context, opts *Options) error {
	ctx = scope(ctx, opts)

	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	state, raw, err := client.GetSnapshot(ctx, opts.SessionID)
	if err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(opts.output(), raw)
	}

	return Render(opts.output(), state, domain.Notice{})
}

// Act sends one action and prints the resulting panel with its notice.
func Act(ctx context.Context, opts *Options, action domain.Action) error {
	ctx = scope(ctx, opts)

	if err := action.Validate(); err != nil {
		return err
	}

	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	result, err := client.Dispatch(ctx, opts.SessionID, action)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Action sent", "session_id", opts.SessionID, "action", action.String())

	if opts.JSON {
		return printJSON(opts.output(), result.Raw)
	}

	return Render(opts.output(), result.State, result.Notice)
}

// printJSON writes a protobuf message in its canonical JSON form.
func printJSON(w io.Writer, message proto.Message) error {
	data, err := protojson.MarshalOptions{Multiline: true, EmitUnpopulated: true}.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode reply: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}
