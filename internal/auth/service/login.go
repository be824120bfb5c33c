package service

import (
	"context"
	"errors"

	commoncrypto "github.com/avolkov/bloglist/internal/common/crypto"
	commonerrors "github.com/avolkov/bloglist/internal/common/errors"
	"github.com/avolkov/bloglist/internal/common/logger"
	"github.com/avolkov/bloglist/internal/observability/metrics"
	userdomain "github.com/avolkov/bloglist/internal/user/domain"
	userrepo "github.com/avolkov/bloglist/internal/user/repository"
)

type LoginService struct {
	repo   userrepo.Repository
	hasher commoncrypto.PasswordHasher
	issuer *TokenIssuer
	log    *logger.Logger
}

func NewLoginService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	issuer *TokenIssuer,
	log *logger.Logger,
) *LoginService {
	return &LoginService{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		log:    log,
	}
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	Token    string
	Username string
	Name     string
}

// Login resolves the user and verifies the password. An unknown username and
// a wrong password are indistinguishable to the caller.
func (s *LoginService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			return LoginResult{}, commonerrors.ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
		return LoginResult{}, commonerrors.ErrInvalidCredentials
	}

	token, err := s.issuer.IssueToken(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return LoginResult{}, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")

	return LoginResult{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}

// ResolveUser maps verified claims back to the stored user record. Blog
// mutations resolve through it before writing, so a still-valid token for a
// deleted user is rejected like any other invalid token.
func (s *LoginService) ResolveUser(ctx context.Context, userID string) (userdomain.User, error) {
	user, err := s.repo.FindByID(ctx, userdomain.ID(userID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return userdomain.User{}, commonerrors.ErrInvalidToken
		}
		return userdomain.User{}, err
	}
	return user, nil
}
