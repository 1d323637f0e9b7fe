package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Skotchmaster/product_service/internal/hash"
	"github.com/Skotchmaster/product_service/internal/logging"
	"github.com/Skotchmaster/product_service/internal/mykafka"
	"github.com/Skotchmaster/product_service/internal/repo"
	"github.com/Skotchmaster/product_service/internal/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Service
	Events Publisher
}

type LoginResult struct {
	UserID    uint
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		l.Warn("login_failed", "status", 401, "reason", "empty credentials")
		return nil, ErrInvalidCredentials
	}

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "reason", "cannot read user", "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.Tokens.Issue(user.ID, user.Username)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.publish(ctx, strconv.FormatUint(uint64(user.ID), 10), mykafka.NewEvent("user_logged_in", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	}))

	l.Info("login_success", "user_id", user.ID)
	return &LoginResult{UserID: user.ID, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) publish(ctx context.Context, key string, ev mykafka.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, mykafka.TopicUserEvents, key, ev); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "type", ev.Type, "error", err)
	}
}
