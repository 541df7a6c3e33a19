// Package checker polls a session and prints its panel whenever it changes.
package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/thermo-slots/internal/config"
	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
	"github.com/oshokin/thermo-slots/internal/logger"
	"github.com/oshokin/thermo-slots/internal/service/client"
	"github.com/oshokin/thermo-slots/internal/service/common"
)

// Options controls the polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional gRPC server address override.
	ServerAddress string
	// SessionID is the session to watch.
	SessionID string
	// PollInterval defines the interval between snapshot checks.
	PollInterval time.Duration
	// Out receives rendered panels. Defaults to stdout.
	Out io.Writer
	// Verbose lets info logs through between panels.
	Verbose bool
}

// DefaultPollInterval is used when Options.PollInterval is not positive.
const DefaultPollInterval = time.Second

var (
	// ErrSessionGone is returned when the watched session no longer exists.
	ErrSessionGone = errors.New("session closed or expired")
	// errSessionRequired is returned when no session id was given.
	errSessionRequired = errors.New("session id must be provided")
)

// snapshotter is the part of common.Client the poller needs.
type snapshotter interface {
	GetSnapshot(ctx context.Context, sessionID string) (domain.State, *structpb.Struct, error)
}

// Run polls the session until ctx is canceled or the session disappears.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "thermo-checker")
	if !opts.Verbose {
		ctx = logger.WithMinLevel(ctx, zapcore.WarnLevel)
	}

	if opts.SessionID == "" {
		return errSessionRequired
	}

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	serverAddress := cfg.GRPCAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	clientOptions := []common.Option{common.WithCallTimeout(cfg.Timeout)}
	if actor, err := common.DetectActor(); err == nil {
		clientOptions = append(clientOptions, common.WithActor(actor))
	}

	conn, err := common.Dial(ctx, serverAddress, clientOptions...)
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	defer func() {
		_ = conn.Close()
	}()

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	logger.InfoKV(ctx, "Watching session",
		"server_address", serverAddress,
		"session_id", opts.SessionID,
		"interval", interval.String())

	return poll(ctx, conn, opts.SessionID, interval, out)
}

// poll renders the first snapshot and every one that differs from the last.
// Transient errors are logged and retried on the next tick.
func poll(ctx context.Context, source snapshotter, sessionID string, interval time.Duration, out io.Writer) error {
	var (
		last     domain.State
		rendered bool
	)

	check := func() error {
		state, _, err := source.GetSnapshot(ctx, sessionID)
		if err != nil {
			return err
		}

		if rendered && state == last {
			return nil
		}

		last, rendered = state, true

		return client.Render(out, state, domain.Notice{})
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := check(); err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("session %s: %w", sessionID, ErrSessionGone)
			}

			if ctx.Err() != nil {
				return nil
			}

			logger.ErrorKV(ctx, "Check snapshot failed", "session_id", sessionID, "error", err)
		}

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
		}
	}
}
