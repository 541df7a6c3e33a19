package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/thermo-slots/internal/api/grpc/thermostat"
	"github.com/oshokin/thermo-slots/internal/api/http/web"
	"github.com/oshokin/thermo-slots/internal/config"
	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
	"github.com/oshokin/thermo-slots/internal/logger"
	repository "github.com/oshokin/thermo-slots/internal/repository/session"
	"github.com/oshokin/thermo-slots/internal/service/common"
	"github.com/oshokin/thermo-slots/internal/service/session"
)

// Options controls the thermo-server process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	// A missing file means defaults.
	ConfigPath string
	// HTTPAddress overrides the web listen address from config.
	HTTPAddress string
	// GRPCAddress overrides the gRPC listen address from config.
	GRPCAddress string
	// KeepSavingOnAdjust overrides keep_saving_on_adjust from config when set.
	KeepSavingOnAdjust *bool
	// Ready, when set, receives the bound addresses once both listeners are open.
	Ready func(httpAddress, grpcAddress string)
}

// minSweepInterval keeps the sweeper from spinning on tiny TTLs.
const minSweepInterval = time.Second

// ErrNoListenAddress indicates that an address could not be resolved to a listen address.
var ErrNoListenAddress = errors.New("no listen address configured")

// Run starts the web and gRPC servers and blocks until ctx is canceled or
// one of them fails.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "thermo-server")

	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err := logger.SetLevelString(settings.LogLevel); err != nil {
		return err
	}

	if logger.Level() > zapcore.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	policy := domain.Policy{KeepSavingOnAdjust: settings.KeepSavingOnAdjust}
	if opts.KeepSavingOnAdjust != nil {
		policy.KeepSavingOnAdjust = *opts.KeepSavingOnAdjust
	}

	httpAddress := firstNonEmpty(opts.HTTPAddress, settings.HTTPAddress)

	grpcAddress, err := resolveListenAddress(settings.GRPCAddress, opts.GRPCAddress)
	if err != nil {
		return fmt.Errorf("resolve grpc listen address: %w", err)
	}

	svc := session.NewService(repository.NewMemoryRepository(), session.WithPolicy(policy))

	secret := []byte(settings.SessionSecret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		logger.Info(ctx, "No session_secret configured, browser sessions will not survive a restart")
	}

	lc := net.ListenConfig{}

	grpcListener, err := lc.Listen(ctx, "tcp", grpcAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", grpcAddress, err)
	}

	httpListener, err := lc.Listen(ctx, "tcp", httpAddress)
	if err != nil {
		_ = grpcListener.Close()

		return fmt.Errorf("listen on %s: %w", httpAddress, err)
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(auditInterceptor))
	api.RegisterThermostatServiceServer(grpcServer, api.NewServer(svc))

	httpServer := &http.Server{
		Handler:           web.NewServer(ctx, svc, web.NewCookieStore(secret, settings.SessionTTL)).Handler(),
		ReadHeaderTimeout: settings.Timeout,
	}

	logger.InfoKV(
		ctx,
		"Thermostat server listening",
		"http_address", httpListener.Addr().String(),
		"grpc_address", grpcListener.Addr().String(),
		"keep_saving_on_adjust", policy.KeepSavingOnAdjust,
		"session_ttl", settings.SessionTTL,
	)

	if opts.Ready != nil {
		opts.Ready(httpListener.Addr().String(), grpcListener.Addr().String())
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		return svc.RunSweeper(groupCtx, settings.SessionTTL, sweepInterval(settings.SessionTTL))
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info(ctx, "Shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settings.Timeout)
		defer cancel()

		grpcServer.GracefulStop()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP: %w", err)
		}

		return nil
	})

	err = group.Wait()

	logger.Info(ctx, "Thermostat server stopped")

	return err
}

// auditInterceptor logs every RPC with the actor reported by the client.
func auditInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	started := time.Now()

	ctx = logger.WithName(ctx, "grpc")
	if actor := common.ActorFromIncoming(ctx); actor != "" {
		ctx = logger.WithKV(ctx, "actor", actor)
	}

	resp, err := handler(ctx, req)

	logger.DebugKV(ctx, "RPC handled", "method", info.FullMethod, "duration", time.Since(started), "error", err)

	return resp, err
}

// sweepInterval checks for idle sessions a few times per TTL.
func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}

	return max(ttl/4, minSweepInterval)
}

// resolveListenAddress determines the gRPC listen address.
// An override is used as is; otherwise the port of configAddr is bound on all
// interfaces, unless configAddr names a loopback host, which is kept.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoListenAddress
	}

	host, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	ip := net.ParseIP(host)
	if host == "localhost" || (ip != nil && ip.IsLoopback()) {
		return net.JoinHostPort(host, port), nil
	}

	return ":" + port, nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
