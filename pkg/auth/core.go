// Package auth implements the request-authentication protocol: short-lived
// signed tokens combined with a long-lived server-side session marker, so an
// active user never re-enters credentials while a stolen token dies with the
// session window.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kinoteka/online_cinema/pkg/logging"
	"github.com/kinoteka/online_cinema/pkg/session"
	"github.com/kinoteka/online_cinema/pkg/tokens"
)

var (
	// ErrUnauthenticated: no token presented, or the token's subject does not
	// resolve to a known user.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrInvalidToken: the token failed signature verification or carries a
	// malformed payload.
	ErrInvalidToken = errors.New("invalid token")

	// ErrSessionExpired: the token was superseded (blacklisted) or the
	// session window has lapsed.
	ErrSessionExpired = errors.New("session expired")

	// ErrUnknownUser is returned by UserResolver implementations when the id
	// has no matching row.
	ErrUnknownUser = errors.New("user not found")
)

type Principal struct {
	ID       uint
	Username string
	Role     string
}

func (p *Principal) IsAdmin() bool { return p.Role == "admin" }

// UserResolver is the slice of the credential store the core consumes.
type UserResolver interface {
	ResolveUser(ctx context.Context, id uint) (*Principal, error)
}

// Core gates access to protected operations. Construct one per process and
// pass it in explicitly; it holds no state beyond its collaborators.
type Core struct {
	Users    UserResolver
	Sessions *session.Cache
	Codec    *tokens.Codec
}

// Result of a successful authentication. NewToken is non-empty when the
// presented token was expired and silently replaced; the caller must forward
// it to the client as the new cookie value.
type Result struct {
	User        *Principal
	NewToken    string
	NewTokenExp time.Time
}

// Authenticate runs the verification state machine for one presented token.
//
// Store failures (cache or credential store unreachable) come back wrapped
// and distinct from the authentication errors above; callers surface them as
// server errors, not as a 401.
func (a *Core) Authenticate(ctx context.Context, raw string) (*Result, error) {
	l := logging.FromContext(ctx).With("svc", "auth.core")

	if raw == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := a.Codec.Decode(raw)
	if err != nil {
		return nil, ErrInvalidToken
	}

	id64, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID := uint(id64)

	black, err := a.Sessions.IsBlacklisted(ctx, userID, raw)
	if err != nil {
		return nil, fmt.Errorf("blacklist check: %w", err)
	}
	if black {
		return nil, ErrSessionExpired
	}

	user, err := a.Users.ResolveUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	if claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	if !claims.Expired(time.Now()) {
		return &Result{User: user}, nil
	}

	alive, err := a.Sessions.SessionAlive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("session check: %w", err)
	}
	if !alive {
		return nil, ErrSessionExpired
	}

	// The session window is still open: retire the stale token and mint a
	// replacement for the same subject. Two concurrent requests can both get
	// here; the redundant refresh just issues one extra valid token.
	if err := a.Sessions.BlacklistToken(ctx, userID, raw); err != nil {
		return nil, fmt.Errorf("blacklist stale token: %w", err)
	}

	newToken, exp, err := a.Codec.Issue(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("issue replacement token: %w", err)
	}

	l.Info("token_refreshed", "user_id", userID)
	return &Result{User: user, NewToken: newToken, NewTokenExp: exp}, nil
}
