package connection

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/mercury-transport/mercury-go/pkg/log"
	"github.com/mercury-transport/mercury-go/pkg/socket"
)

// defaultQuery is added to every channel URL unless already present.
var defaultQuery = [][2]string{
	{"outboundWireFormat", "text"},
	{"bufferStates", "true"},
	{"aliasHttpStatus", "true"},
}

// attempt opens one socket. On failure it applies the recovery for the
// error class before returning, so the next attempt starts from a fixed
// state.
func (m *Manager) attempt(ctx context.Context, attempt int) (*session, error) {
	m.mu.Lock()
	raw := m.url
	m.mu.Unlock()
	if raw == "" && m.registrar != nil {
		raw = m.registrar.WebSocketURL()
	}
	if raw == "" {
		m.recordError(ErrNoURL)
		return nil, Unrecoverable(ErrNoURL)
	}

	target, err := m.prepareURL(ctx, raw)
	if err != nil {
		m.recordError(err)
		return nil, err
	}

	token := ""
	if m.creds != nil {
		if token, err = m.creds.Authorization(ctx); err != nil {
			err = fmt.Errorf("get authorization: %w", err)
			m.recordError(err)
			return nil, err
		}
	}

	sock := m.newSocket(socket.Options{
		Token:           token,
		Headers:         m.cfg.DefaultMercuryOptions,
		PingInterval:    m.cfg.PingInterval,
		PongTimeout:     m.cfg.PongTimeout,
		ForceCloseDelay: m.cfg.ForceCloseDelay,
		Logger:          m.logger,
		EventLogger:     m.evlog,
	})
	s := &session{
		sock:   sock,
		url:    target,
		inbox:  newInbox(m.ctx, m.router),
		closed: make(chan struct{}),
	}

	m.logger.Debug("opening socket", "attempt", attempt, "conn_id", sock.ID(), "url", target)

	if err := sock.Open(ctx, target, m.listener(s)); err != nil {
		s.gone.Store(true)
		s.inbox.close()
		s.markClosed()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m.recordError(err)
		return nil, m.recoverFrom(ctx, err, target)
	}

	if ctx.Err() != nil {
		_ = sock.Close(0, "")
		return nil, ctx.Err()
	}
	return s, nil
}

// recoverFrom runs the collaborator call matching the error class and returns
// the error to hand to the retry loop.
func (m *Manager) recoverFrom(ctx context.Context, err error, target string) error {
	var connErr *socket.ConnectionError

	switch {
	case errors.Is(err, socket.ErrBadRequest), errors.Is(err, socket.ErrForbidden):
		return Unrecoverable(err)

	case errors.Is(err, socket.ErrUnknownResponse):
		if m.registrar != nil {
			m.logger.Info("refreshing registration after unknown response")
			if rerr := m.registrar.Refresh(ctx); rerr != nil {
				m.logger.Warn("registration refresh failed", "error", rerr)
			}
		}

	case errors.Is(err, socket.ErrNotAuthorized):
		if m.creds != nil {
			m.logger.Info("refreshing credentials after not authorized")
			if rerr := m.creds.ForceRefresh(ctx); rerr != nil {
				m.logger.Warn("credential refresh failed", "error", rerr)
			}
		}

	case errors.As(err, &connErr):
		if m.cfg.HighAvailability && m.hosts != nil {
			if rerr := m.hosts.MarkFailed(ctx, target); rerr != nil {
				m.logger.Warn("mark host failed", "url", target, "error", rerr)
			}
		}
	}
	return err
}

// prepareURL resolves the preferred host when high availability is on and
// adds the default query parameters.
func (m *Manager) prepareURL(ctx context.Context, raw string) (string, error) {
	target := raw
	if m.cfg.HighAvailability && m.hosts != nil {
		resolved, err := m.hosts.Resolve(ctx, raw)
		if err != nil {
			return "", fmt.Errorf("resolve host: %w", err)
		}
		target = resolved
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", Unrecoverable(fmt.Errorf("parse channel url: %w", err))
	}
	q := u.Query()
	for _, kv := range defaultQuery {
		if !q.Has(kv[0]) {
			q.Set(kv[0], kv[1])
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// attemptFailed logs a failed attempt of the named loop.
func (m *Manager) attemptFailed(loop string) func(attempt int, err error, next time.Duration) {
	return func(attempt int, err error, next time.Duration) {
		m.logger.Warn(loop+" attempt failed",
			"attempt", attempt,
			"error", err,
			"next", next)
		m.evlog.Log(log.Error("", log.LayerService, err, loop, attempt))
		if next > 0 {
			m.evlog.Log(log.StateChange("", log.StateEntityRetry, "failed", "waiting", next.String(), attempt))
		}
	}
}
