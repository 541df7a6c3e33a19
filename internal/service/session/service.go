package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
	"github.com/oshokin/thermo-slots/internal/logger"
	"github.com/oshokin/thermo-slots/internal/metrics"
	repo "github.com/oshokin/thermo-slots/internal/repository/session"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Service applies user actions to sessions stored in a repository.
// Actions are processed one at a time to completion.
type Service struct {
	// repo stores session records.
	repo repo.Repository
	// policy selects the adjust behaviour of the reducer.
	policy domain.Policy
	// now is the clock used for session timestamps.
	now func() time.Time
	// newID generates session identifiers.
	newID func() string
	// mu serialises transitions.
	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy sets the reducer policy.
func WithPolicy(policy domain.Policy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the UUID generator, mostly for tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService creates a service backed by the provided repository.
func NewService(repository repo.Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repository,
		now:   time.Now,
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Policy returns the reducer policy in use.
func (s *Service) Policy() domain.Policy {
	return s.policy
}

// CreateSession opens a session in the initial state and returns its id.
func (s *Service) CreateSession(ctx context.Context) (string, domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	record := &repo.Record{
		ID:        s.newID(),
		Mode:      domain.ModeIdle,
		CreatedAt: now,
		LastSeen:  now,
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return "", domain.State{}, fmt.Errorf("save session: %w", err)
	}

	s.updateGauge(ctx)
	logger.InfoKV(ctx, "Session created", "session_id", record.ID)

	return record.ID, record.State, nil
}

// GetSnapshot returns the current state of a session and marks it as seen.
func (s *Service) GetSnapshot(ctx context.Context, sessionID string) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load(ctx, sessionID)
	if err != nil {
		return domain.State{}, err
	}

	record.LastSeen = s.now()
	if err := s.repo.Save(ctx, record); err != nil {
		return domain.State{}, fmt.Errorf("save session: %w", err)
	}

	return record.State, nil
}

// Dispatch applies action to the session and returns the new state and the
// notice for the next render. An empty-slot recall is not an error here: the
// state is returned unchanged together with a warning notice.
func (s *Service) Dispatch(
	ctx context.Context,
	sessionID string,
	action domain.Action,
) (domain.State, domain.Notice, error) {
	ctx = logger.WithKV(ctx, "session_id", sessionID)

	if err := action.Validate(); err != nil {
		metrics.ObserveAction(string(action.Kind), metrics.ResultRejected)

		return domain.State{}, domain.Notice{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load(ctx, sessionID)
	if err != nil {
		return domain.State{}, domain.Notice{}, err
	}

	next, notice, err := domain.Reduce(record.State, action, s.policy)

	result := metrics.ResultOK

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmptySlotRecall):
		result = metrics.ResultWarning

		logger.WarnKV(ctx, "Recall from empty slot", "action", action.String())
	default:
		metrics.ObserveAction(string(action.Kind), metrics.ResultRejected)

		return domain.State{}, domain.Notice{}, err
	}

	mode, err := syncMode(ctx, newModeMachine(record.Mode), next.Mode())
	if err != nil {
		return domain.State{}, domain.Notice{}, err
	}

	record.State = next
	record.Mode = mode
	record.LastSeen = s.now()

	if err := s.repo.Save(ctx, record); err != nil {
		logger.ErrorKV(ctx, "Failed to persist session", "error", err)

		return domain.State{}, domain.Notice{}, fmt.Errorf("save session: %w", err)
	}

	metrics.ObserveAction(string(action.Kind), result)
	logger.DebugKV(
		ctx,
		"Action applied",
		"action", action.String(),
		"current", next.Current,
		"mode", mode,
	)

	return next, notice, nil
}

// CloseSession forgets a session.
func (s *Service) CloseSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}

		return fmt.Errorf("delete session: %w", err)
	}

	s.updateGauge(ctx)
	logger.InfoKV(ctx, "Session closed", "session_id", sessionID)

	return nil
}

// Sweep removes sessions not seen for longer than ttl and returns how many were removed.
func (s *Service) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.repo.DeleteIdle(ctx, s.now().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("delete idle sessions: %w", err)
	}

	if len(removed) > 0 {
		metrics.ObserveExpiredSessions(len(removed))
		s.updateGauge(ctx)
		logger.InfoKV(ctx, "Idle sessions expired", "count", len(removed), "ttl", ttl)
	}

	return len(removed), nil
}

// RunSweeper calls Sweep every interval until ctx is canceled.
// A non-positive ttl disables sweeping and RunSweeper just waits for ctx.
func (s *Service) RunSweeper(ctx context.Context, ttl, interval time.Duration) error {
	if ttl <= 0 || interval <= 0 {
		<-ctx.Done()

		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Sweep(ctx, ttl); err != nil {
				logger.ErrorKV(ctx, "Session sweep failed", "error", err)
			}
		}
	}
}

// load reads a record and maps repository misses to ErrSessionNotFound.
func (s *Service) load(ctx context.Context, sessionID string) (*repo.Record, error) {
	record, err := s.repo.Load(ctx, sessionID)
	switch {
	case err == nil:
		return record, nil
	case errors.Is(err, repo.ErrNotFound):
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	default:
		return nil, fmt.Errorf("load session: %w", err)
	}
}

// updateGauge refreshes the active sessions gauge. Callers hold s.mu.
func (s *Service) updateGauge(ctx context.Context) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to count sessions", "error", err)

		return
	}

	metrics.SetActiveSessions(count)
}
