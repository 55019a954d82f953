package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/kinoteka/online_cinema/pkg/events"
	"github.com/kinoteka/online_cinema/pkg/hash"
	"github.com/kinoteka/online_cinema/pkg/logging"
	"github.com/kinoteka/online_cinema/pkg/session"
	"github.com/kinoteka/online_cinema/pkg/tokens"
	"github.com/kinoteka/online_cinema/services/auth/internal/models"
	"github.com/kinoteka/online_cinema/services/auth/internal/repo"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. The two causes are logged distinctly but must be reported
	// identically so the endpoint cannot be used to enumerate users.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUserExists = errors.New("user already exists")
	ErrValidation = errors.New("validation error")
)

type AuthService struct {
	Repo     *repo.GormRepo
	Sessions *session.Cache
	Codec    *tokens.Codec
	Producer *events.Producer
}

type LoginResult struct {
	Token   string
	Exp     time.Time
	IsAdmin bool
	UserID  uint
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" || email == "" || password == "" {
		return nil, ErrValidation
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}

	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			l.Warn("register_error", "status", 409, "reason", "user already exists")
			return nil, ErrUserExists
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, "user_registered", user.ID, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login_failed", "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.Codec.Issue(strconv.FormatUint(uint64(user.ID), 10))
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if err := s.Sessions.StartSession(ctx, user.ID); err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, "user_logged_in", user.ID, map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
	})

	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{
		Token:   token,
		Exp:     exp,
		IsAdmin: user.Role == models.RoleAdmin,
		UserID:  user.ID,
	}, nil
}

// Logout ends the session window and blacklists the presented token so a
// captured cookie dies immediately rather than riding out its own expiry.
func (s *AuthService) Logout(ctx context.Context, userID uint, token string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout", "user_id", userID)

	if err := s.Sessions.EndSession(ctx, userID); err != nil {
		l.Error("logout_failed", "error", err)
		return err
	}

	if token != "" {
		if err := s.Sessions.BlacklistToken(ctx, userID, token); err != nil {
			l.Error("logout_failed", "reason", "cannot blacklist token", "error", err)
			return err
		}
	}

	s.publish(ctx, "user_logged_out", userID, map[string]any{
		"type":    "user_logged_out",
		"user_id": userID,
	})

	l.Info("logout_successful")
	return nil
}

// MakeAdmin promotes the user; promoted=false means the user already was an
// admin, which is a success, not an error.
func (s *AuthService) MakeAdmin(ctx context.Context, userID uint) (bool, error) {
	l := logging.FromContext(ctx).With("svc", "auth.make_admin", "user_id", userID)

	promoted, err := s.Repo.PromoteAdmin(ctx, userID)
	if err != nil {
		l.Error("promotion_failed", "error", err)
		return false, err
	}

	if promoted {
		s.publish(ctx, "user_promoted", userID, map[string]any{
			"type":    "user_promoted",
			"user_id": userID,
		})
		l.Info("promotion_successful")
	}
	return promoted, nil
}

func (s *AuthService) publish(ctx context.Context, kind string, userID uint, event map[string]any) {
	if s.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := strconv.FormatUint(uint64(userID), 10)
	if err := s.Producer.PublishEvent(pubCtx, events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "event", kind, "error", err)
	}
}
