package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"astra/telemetry-backend/internal/auth"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/logging"
	"astra/telemetry-backend/internal/metrics"
	"astra/telemetry-backend/internal/models/dtos"
)

// AuthService handles login, token refresh and logout.
type AuthService struct {
	users   *repositories.UserRepositoryGORM
	tokens  *auth.TokenService
	metrics *metrics.MetricsRegistry
}

func NewAuthService(users *repositories.UserRepositoryGORM, tokens *auth.TokenService, m *metrics.MetricsRegistry) *AuthService {
	return &AuthService{users: users, tokens: tokens, metrics: m}
}

func (s *AuthService) countLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}

// Login verifies email/password and returns a fresh token pair with the user.
func (s *AuthService) Login(ctx context.Context, req dtos.LoginReq) (*dtos.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, validationError("non_field_errors", constants.MsgMissingCredentials)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.countLogin("invalid_credentials")
			return nil, newError(constants.ErrCodeAuthentication, constants.MsgInvalidCredentials)
		}
		return nil, fromRepo("user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.countLogin("invalid_credentials")
		return nil, newError(constants.ErrCodeAuthentication, constants.MsgInvalidCredentials)
	}
	if !user.IsActive {
		s.countLogin("inactive")
		return nil, newError(constants.ErrCodeAccountInactive, constants.MsgAccountInactive)
	}

	pair, err := s.tokens.IssuePair(*user)
	if err != nil {
		return nil, fromRepo("token", err)
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		logging.Warn("failed to stamp last_login", "user_id", user.ID, "error", err)
	} else {
		user.LastLogin = &now
	}

	s.countLogin("success")
	logging.Info("user logged in", "user_id", user.ID)

	return &dtos.LoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    dtos.NewUserResponse(*user),
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, req dtos.RefreshReq) (*dtos.RefreshResponse, error) {
	if strings.TrimSpace(req.Refresh) == "" {
		return nil, validationError("refresh", "This field is required")
	}

	claims, err := s.tokens.Parse(req.Refresh, constants.TokenTypeRefresh)
	if err != nil {
		return nil, &ServiceError{Code: constants.ErrCodeInvalidToken, Message: constants.MsgInvalidToken, Err: err}
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, &ServiceError{Code: constants.ErrCodeInvalidToken, Message: constants.MsgInvalidToken, Err: err}
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || !user.IsActive {
		return nil, &ServiceError{Code: constants.ErrCodeInvalidToken, Message: constants.MsgInvalidToken, Err: err}
	}

	access, err := s.tokens.IssueAccess(*user)
	if err != nil {
		return nil, fromRepo("token", err)
	}
	return &dtos.RefreshResponse{Access: access}, nil
}

// Logout revokes the refresh token. The token must belong to the caller.
func (s *AuthService) Logout(ctx context.Context, caller auth.UserClaims, req dtos.RefreshReq) error {
	if strings.TrimSpace(req.Refresh) == "" {
		return validationError("refresh", "This field is required")
	}

	claims, err := s.tokens.Parse(req.Refresh, constants.TokenTypeRefresh)
	if err != nil {
		return &ServiceError{Code: constants.ErrCodeInvalidToken, Message: constants.MsgInvalidToken, Err: err}
	}
	if userID, err := claims.UserID(); err != nil || userID != caller.UserID() {
		return newError(constants.ErrCodeInvalidToken, constants.MsgInvalidToken)
	}

	s.tokens.Revoke(claims)
	logging.Info("user logged out", "user_id", caller.UserID())
	return nil
}
