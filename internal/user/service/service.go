package service

import (
	"context"
	"errors"
	"fmt"

	blogdomain "github.com/avolkov/bloglist/internal/blog/domain"
	blogrepo "github.com/avolkov/bloglist/internal/blog/repository"
	"github.com/avolkov/bloglist/internal/common/clock"
	commoncrypto "github.com/avolkov/bloglist/internal/common/crypto"
	commonerrors "github.com/avolkov/bloglist/internal/common/errors"
	"github.com/avolkov/bloglist/internal/common/logger"
	"github.com/avolkov/bloglist/internal/observability/metrics"
	"github.com/avolkov/bloglist/internal/user/domain"
	userrepo "github.com/avolkov/bloglist/internal/user/repository"
)

type UserService struct {
	repo        userrepo.Repository
	blogRepo    blogrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewUserService(
	repo userrepo.Repository,
	blogRepo blogrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *UserService {
	return &UserService{
		repo:        repo,
		blogRepo:    blogRepo,
		hasher:      hasher,
		idGenerator: idGenerator,
		clock:       clk,
		log:         log,
	}
}

type RegisterInput struct {
	Username string
	Name     string
	Password string
}

// UserWithBlogs is the listing projection: a user together with the blogs
// they own.
type UserWithBlogs struct {
	User  domain.User
	Blogs []blogdomain.Blog
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validateCredentials(input.Username, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return domain.User{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to generate user id: %w", err)
	}

	user := domain.User{
		ID:           domain.ID(id),
		Username:     input.Username,
		Name:         input.Name,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: username taken")
			return domain.User{}, commonerrors.ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return domain.User{}, err
	}

	metrics.UsersRegistered.Inc()

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	return user, nil
}

// List returns every user with their owned blogs attached.
func (s *UserService) List(ctx context.Context) ([]UserWithBlogs, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]UserWithBlogs, 0, len(users))
	for _, u := range users {
		blogs, err := s.blogRepo.FindByOwner(ctx, string(u.ID))
		if err != nil {
			return nil, err
		}
		result = append(result, UserWithBlogs{User: u, Blogs: blogs})
	}

	return result, nil
}
