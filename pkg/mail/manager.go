package mail

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/omondijeff/pension-pilot-mail-service/pkg/config"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/metrics"
)

// Manager owns the relay connection lifecycle: it verifies connectivity,
// retries with linear backoff at startup, and hands out the live transport.
// All connection state lives here, guarded by a mutex, instead of in
// process-wide globals.
type Manager struct {
	cfg  config.Mail
	log  *zap.SugaredLogger
	dial DialFunc

	// single-flight guard so concurrent requests observing a missing
	// transport trigger exactly one lazy reinitialization
	sf singleflight.Group

	mu        sync.Mutex
	status    Status
	lastErr   error
	lastCheck time.Time
	attempts  int
	transport Transport
}

// NewManager creates a connection manager for the given relay configuration.
func NewManager(cfg config.Mail, log *zap.SugaredLogger) *Manager {
	return &Manager{
		cfg:    cfg,
		log:    log.Named("mail-manager"),
		dial:   dialAndVerify,
		status: StatusNotInitialized,
	}
}

// WithDialFunc overrides how the manager verifies connectivity. Used by
// tests to avoid real SMTP dials.
func (m *Manager) WithDialFunc(dial DialFunc) *Manager {
	m.dial = dial
	return m
}

// Initialize runs the full startup retry ladder: verification attempts with
// linear backoff (step, 2*step, ...) until success or the reconnect ceiling
// is exceeded. It is meant to run asynchronously at process start so the
// HTTP listener accepts connections immediately. Failures are recorded in
// the connection state and returned; nothing is raised beyond that.
func (m *Manager) Initialize(ctx context.Context) error {
	m.log.Infow("Initializing mail transport",
		"host", m.cfg.Host,
		"port", m.cfg.Port,
		"maxReconnectAttempts", m.cfg.MaxReconnectAttempts,
		"backoffStepMs", m.cfg.BackoffStepMs)

	err := retry.Do(ctx, m.backoff(), func(ctx context.Context) error {
		err := m.attempt()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrMissingSecret) && !m.cfg.RetryOnMissingSecret {
			// Configuration error: fail fast, no retry budget spent.
			return err
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		m.log.Errorw("Mail transport initialization gave up",
			"error", err,
			"attempts", m.ReconnectAttempts())
		return err
	}

	m.log.Infow("Mail transport verified and connected", "host", m.cfg.Host)
	return nil
}

// Ensure returns the live transport, lazily running a single verification
// attempt (no retry ladder) when none exists. Concurrent callers share one
// attempt through the single-flight group.
func (m *Manager) Ensure() (Transport, error) {
	if t := m.Transport(); t != nil {
		return t, nil
	}

	v, err, _ := m.sf.Do("initialize", func() (interface{}, error) {
		if t := m.Transport(); t != nil {
			return t, nil
		}
		if err := m.attempt(); err != nil {
			return nil, err
		}
		return m.Transport(), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Transport), nil
}

// attempt performs one verification attempt and records the outcome in the
// connection state.
func (m *Manager) attempt() error {
	m.mu.Lock()
	m.status = StatusInitializing
	m.lastCheck = time.Now()
	m.mu.Unlock()

	if m.cfg.Password == "" {
		m.recordFailure(ErrMissingSecret)
		return ErrMissingSecret
	}

	t, err := m.dial(m.cfg)
	if err != nil {
		m.recordFailure(err)
		metrics.ConnectAttempts.WithLabelValues("failure").Inc()
		m.log.Warnw("Mail transport verification failed",
			"error", err,
			"attempts", m.ReconnectAttempts())
		return err
	}

	m.mu.Lock()
	m.status = StatusConnected
	m.lastErr = nil
	m.attempts = 0
	m.transport = t
	m.mu.Unlock()
	metrics.ConnectAttempts.WithLabelValues("success").Inc()
	return nil
}

func (m *Manager) recordFailure(err error) {
	m.mu.Lock()
	m.status = StatusFailed
	m.lastErr = err
	m.attempts++
	m.mu.Unlock()
}

// backoff builds the linear ladder: retry n sleeps n*step, capped at the
// configured reconnect ceiling. The step is configurable so tests run with
// zero delay.
func (m *Manager) backoff() retry.Backoff {
	step := time.Duration(m.cfg.BackoffStepMs) * time.Millisecond
	n := 0
	linear := retry.BackoffFunc(func() (time.Duration, bool) {
		n++
		return time.Duration(n) * step, false
	})
	return retry.WithMaxRetries(uint64(m.cfg.MaxReconnectAttempts), linear)
}

// Transport returns the current transport handle, or nil when disconnected.
func (m *Manager) Transport() Transport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transport
}

// ReconnectAttempts returns the consecutive failed attempt count.
func (m *Manager) ReconnectAttempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// Snapshot reports the current connection state for the status endpoints.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		CurrentStatus:        m.status,
		PasswordSet:          m.cfg.Password != "",
		LastChecked:          m.lastCheck,
		ReconnectAttempts:    m.attempts,
		MaxReconnectAttempts: m.cfg.MaxReconnectAttempts,
		Host:                 m.cfg.Host,
		Port:                 m.cfg.Port,
	}
	if m.lastErr != nil {
		s.LastError = m.lastErr.Error()
	}
	return s
}
