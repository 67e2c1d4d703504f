package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fitsyncapp/fitsync/internal/api"
	"github.com/fitsyncapp/fitsync/internal/common"
	"github.com/fitsyncapp/fitsync/internal/logging"
	"github.com/fitsyncapp/fitsync/internal/repositories/metadata"
	"github.com/fitsyncapp/fitsync/internal/store"
)

// SessionService is the session boundary: it authenticates against the
// server, keeps the bearer token in the local store for silent restore, and
// enforces data isolation between accounts. Cached data belongs to exactly
// one user; when a different identity signs in, the whole store is wiped
// before the new session is recorded.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*api.User, error)
	Register(ctx context.Context, name, email, password string) (*api.User, error)

	// Restore revives the previous session from the stored token. Works
	// offline: when the server is unreachable the identity is taken from
	// the token itself and validation is deferred to the next sync.
	Restore(ctx context.Context) (*api.User, error)

	// Logout clears the session and wipes all local data.
	Logout(ctx context.Context) error

	// UserID returns the authenticated user id, empty when signed out.
	UserID() string
	Authenticated() bool

	// Expired reports whether the current token is missing or past its
	// expiry claim. Used to skip remote calls that would bounce with 401.
	Expired() bool
}

type sessionService struct {
	client api.Client
	store  *store.Store
	logger logging.Logger

	// guard is shared with the sync coordinator: a wipe never interleaves
	// with a merge.
	guard *sync.Mutex

	mu     sync.RWMutex
	userID string
}

// NewSessionService builds the session boundary. guard must be the same
// mutex the sync coordinator applies its merges under; pass nil to let the
// service own one (tests, no coordinator).
func NewSessionService(client api.Client, st *store.Store, logger logging.Logger, guard *sync.Mutex) SessionService {
	if guard == nil {
		guard = &sync.Mutex{}
	}
	return &sessionService{client: client, store: st, logger: logger.With("service", "session"), guard: guard}
}

func (s *sessionService) Login(ctx context.Context, email, password string) (*api.User, error) {
	sess, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.adopt(ctx, sess.User.ID, sess.Token); err != nil {
		return nil, err
	}
	return &sess.User, nil
}

func (s *sessionService) Register(ctx context.Context, name, email, password string) (*api.User, error) {
	sess, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.adopt(ctx, sess.User.ID, sess.Token); err != nil {
		return nil, err
	}
	return &sess.User, nil
}

func (s *sessionService) Restore(ctx context.Context) (*api.User, error) {
	raw, err := s.store.Metadata.Get(ctx, metadata.KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored token: %w", err)
	}
	if len(raw) == 0 {
		return nil, common.ErrorUnauthorized
	}
	token := string(raw)

	if api.TokenExpired(token, time.Now()) {
		_ = s.store.Metadata.Delete(ctx, metadata.KeyAccessToken)
		return nil, common.ErrorUnauthorized
	}

	s.client.SetToken(token)

	u, err := s.client.Me(ctx)
	switch {
	case err == nil:
		if err := s.adopt(ctx, u.ID, token); err != nil {
			return nil, err
		}
		return u, nil

	case errors.Is(err, api.ErrUnauthorized):
		// Token revoked server-side.
		s.client.SetToken("")
		_ = s.store.Metadata.Delete(ctx, metadata.KeyAccessToken)
		return nil, common.ErrorUnauthorized

	case errors.Is(err, api.ErrUnavailable):
		// Offline restore: trust the token's own identity claim.
		id, idErr := api.TokenUserID(token)
		if idErr != nil {
			s.client.SetToken("")
			return nil, common.ErrorUnauthorized
		}
		if err := s.adopt(ctx, id, token); err != nil {
			return nil, err
		}
		s.logger.Info(ctx, "session restored offline", "user", id)
		return &api.User{ID: id}, nil

	default:
		return nil, err
	}
}

func (s *sessionService) Logout(ctx context.Context) error {
	s.client.SetToken("")

	s.guard.Lock()
	err := s.store.Reset(ctx)
	s.guard.Unlock()
	if err != nil {
		return fmt.Errorf("failed to clear local data: %w", err)
	}

	s.mu.Lock()
	s.userID = ""
	s.mu.Unlock()
	return nil
}

func (s *sessionService) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *sessionService) Authenticated() bool {
	return s.UserID() != ""
}

func (s *sessionService) Expired() bool {
	token := s.client.Token()
	return token == "" || api.TokenExpired(token, time.Now())
}

// adopt records a fresh session. When the cache belongs to a different user
// the whole store is wiped first, under the coordinator's guard, so stale
// data and queued actions never leak across accounts.
func (s *sessionService) adopt(ctx context.Context, userID, token string) error {
	prev, err := s.store.Metadata.Get(ctx, metadata.KeyLastUserID)
	if err != nil {
		return fmt.Errorf("failed to read cache owner: %w", err)
	}

	if len(prev) > 0 && string(prev) != userID {
		s.logger.Info(ctx, "cache owner changed, wiping local data",
			"previous", string(prev), "current", userID)

		s.guard.Lock()
		err := s.store.Reset(ctx)
		s.guard.Unlock()
		if err != nil {
			// The cache still holds the previous user's data and the new
			// user's token is already installed. Drop the token and the
			// stored credential so every token-gated path goes quiescent
			// rather than shipping the old user's queue under the new
			// identity.
			s.client.SetToken("")
			_ = s.store.Metadata.Delete(ctx, metadata.KeyAccessToken)
			s.mu.Lock()
			s.userID = ""
			s.mu.Unlock()
			return fmt.Errorf("%w: %v", common.ErrUserMismatch, err)
		}
	}

	if err := s.store.Metadata.Set(ctx, metadata.KeyLastUserID, []byte(userID)); err != nil {
		return fmt.Errorf("failed to record cache owner: %w", err)
	}
	if err := s.store.Metadata.Set(ctx, metadata.KeyAccessToken, []byte(token)); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()
	return nil
}
