package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/jwt"
)

// DefaultNamespace is the storage key the session is persisted under.
const DefaultNamespace = "auth-storage"

const (
	persistVersion = 0
	saveTimeout    = 5 * time.Second
)

// Persister loads and saves the session across restarts.
type Persister interface {
	// Load returns the persisted session; found is false when nothing was stored.
	Load(ctx context.Context) (state Session, found bool, err error)
	Save(ctx context.Context, state Session) error
}

type envelope struct {
	State   Session `json:"state"`
	Version int     `json:"version"`
}

// encode serializes state as {"state":...,"version":0}, sealed when sealer is set.
func encode(state Session, sealer *Sealer) ([]byte, error) {
	data, err := json.Marshal(envelope{State: state, Version: persistVersion})
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if sealer == nil {
		return data, nil
	}
	return sealer.Seal(data)
}

func decode(data []byte, sealer *Sealer) (Session, error) {
	if sealer != nil {
		plain, err := sealer.Open(data)
		if err != nil {
			return Session{}, err
		}
		data = plain
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Session{}, fmt.Errorf("failed to decode session: %w", err)
	}
	if env.Version != persistVersion {
		return Session{}, fmt.Errorf("unsupported session version %d", env.Version)
	}
	return env.State, nil
}

type bindConfig struct {
	now func() time.Time
}

type BindOption func(*bindConfig)

func withNow(now func() time.Time) BindOption {
	return func(c *bindConfig) { c.now = now }
}

// Bind restores the persisted session into store and persists every later change.
// Sessions whose access token has expired are discarded on restore. The returned
// function stops persisting.
func Bind(ctx context.Context, store *Store, p Persister, opts ...BindOption) (func(), error) {
	cfg := bindConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	state, found, err := p.Load(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Warn("Discarding unreadable persisted session", "error", err)
		found = false
	}

	if found {
		state = state.normalize()
		if state.IsAuthenticated && tokenExpired(state.Token, cfg.now()) {
			slog.Info("Persisted session expired, starting signed out")
			state = Session{}
		}
		store.Restore(state)
		if state.IsAuthenticated {
			slog.Info("Session restored", "user_id", state.User.ID, "email", state.User.Email)
		}
	}

	cancel := store.OnChange(func(s Session) {
		saveCtx, done := context.WithTimeout(context.Background(), saveTimeout)
		defer done()
		if err := p.Save(saveCtx, s); err != nil {
			slog.Error("Failed to persist session", "error", err)
		}
	})

	if found && !state.IsAuthenticated {
		if err := p.Save(ctx, state); err != nil {
			slog.Error("Failed to persist session", "error", err)
		}
	}
	return cancel, nil
}

// ExpireStale logs store out when its access token has expired. It reports whether it did.
func ExpireStale(store *Store, now time.Time) bool {
	snap := store.Snapshot()
	if !snap.IsAuthenticated || !tokenExpired(snap.Token, now) {
		return false
	}
	slog.Info("Access token expired, signing out", "user_id", snap.User.ID)
	store.Logout()
	return true
}

// tokenExpired reports whether token is a JWT whose exp has passed. Opaque tokens never expire locally.
func tokenExpired(token string, now time.Time) bool {
	claims, err := jwt.Inspect(token)
	if err != nil {
		return false
	}
	return claims.Expired(now)
}
