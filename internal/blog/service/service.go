package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/avolkov/bloglist/internal/blog/domain"
	blogrepo "github.com/avolkov/bloglist/internal/blog/repository"
	"github.com/avolkov/bloglist/internal/blog/stats"
	"github.com/avolkov/bloglist/internal/common/clock"
	commoncrypto "github.com/avolkov/bloglist/internal/common/crypto"
	commonerrors "github.com/avolkov/bloglist/internal/common/errors"
	"github.com/avolkov/bloglist/internal/common/jwtverify"
	"github.com/avolkov/bloglist/internal/common/logger"
	"github.com/avolkov/bloglist/internal/observability/metrics"
	userdomain "github.com/avolkov/bloglist/internal/user/domain"
)

// Publisher receives domain events after successful mutations. The hub in
// internal/blog/events implements it; a nil publisher disables the feed.
type Publisher interface {
	Publish(event Event)
}

// UserResolver maps a verified token identity back to its stored user
// record. Mutations resolve the identity first, so a token for a user that
// no longer exists cannot write.
type UserResolver interface {
	ResolveUser(ctx context.Context, userID string) (userdomain.User, error)
}

type EventType string

const (
	EventBlogCreated EventType = "blog_created"
	EventBlogUpdated EventType = "blog_updated"
	EventBlogDeleted EventType = "blog_deleted"
)

type Event struct {
	Type EventType   `json:"type"`
	Blog domain.Blog `json:"blog"`
}

type BlogService struct {
	repo        blogrepo.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	publisher   Publisher
	users       UserResolver
	log         *logger.Logger
	validate    *validator.Validate
}

func NewBlogService(
	repo blogrepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	publisher Publisher,
	users UserResolver,
	log *logger.Logger,
) *BlogService {
	return &BlogService{
		repo:        repo,
		idGenerator: idGenerator,
		clock:       clk,
		publisher:   publisher,
		users:       users,
		log:         log,
		validate:    validator.New(),
	}
}

type CreateInput struct {
	Title  string `validate:"required,max=200"`
	Author string `validate:"max=100"`
	URL    string `validate:"required,max=2048"`

	// Likes is a pointer so an omitted field defaults to zero while an
	// explicit zero is preserved as-is.
	Likes *int `validate:"omitempty,gte=0"`
}

func (s *BlogService) List(ctx context.Context) ([]domain.Blog, error) {
	return s.repo.FindAll(ctx)
}

func (s *BlogService) Create(ctx context.Context, claims jwtverify.Claims, input CreateInput) (domain.Blog, error) {
	owner, err := s.users.ResolveUser(ctx, claims.UserID)
	if err != nil {
		return domain.Blog{}, err
	}

	if err := s.validateCreate(input); err != nil {
		return domain.Blog{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Blog{}, fmt.Errorf("failed to generate blog id: %w", err)
	}

	likes := 0
	if input.Likes != nil {
		likes = *input.Likes
	}

	blog := domain.Blog{
		ID:        domain.ID(id),
		Title:     input.Title,
		Author:    input.Author,
		URL:       input.URL,
		Likes:     likes,
		OwnerID:   string(owner.ID),
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, blog); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": claims.UserID,
			"action":  "blog_create_failed",
		}).Errorf("blog create failed: %v", err)
		return domain.Blog{}, err
	}

	metrics.BlogsCreated.Inc()
	s.publish(Event{Type: EventBlogCreated, Blog: blog})

	s.log.WithFields(ctx, logger.Fields{
		"blog_id": string(blog.ID),
		"user_id": claims.UserID,
		"action":  "blog_created",
	}).Info("blog created")

	return blog, nil
}

// Update mutates an owned blog. The identity is resolved and the target is
// fetched, then ownership is confirmed, before any write executes.
func (s *BlogService) Update(ctx context.Context, claims jwtverify.Claims, id domain.ID, update domain.Update) (domain.Blog, error) {
	if _, err := s.users.ResolveUser(ctx, claims.UserID); err != nil {
		return domain.Blog{}, err
	}

	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, blogrepo.ErrBlogNotFound) {
			return domain.Blog{}, commonerrors.ErrBlogNotFound
		}
		return domain.Blog{}, err
	}

	if err := AuthorizeOwnership(claims, blog); err != nil {
		return domain.Blog{}, err
	}

	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, blogrepo.ErrBlogNotFound) {
			return domain.Blog{}, commonerrors.ErrBlogNotFound
		}
		return domain.Blog{}, err
	}

	metrics.BlogsUpdated.Inc()
	s.publish(Event{Type: EventBlogUpdated, Blog: updated})

	return updated, nil
}

// Delete removes an owned blog. Removing an id that no longer exists is a
// success: remove is idempotent at this layer.
func (s *BlogService) Delete(ctx context.Context, claims jwtverify.Claims, id domain.ID) error {
	if _, err := s.users.ResolveUser(ctx, claims.UserID); err != nil {
		return err
	}

	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, blogrepo.ErrBlogNotFound) {
			return nil
		}
		return err
	}

	if err := AuthorizeOwnership(claims, blog); err != nil {
		return err
	}

	if err := s.repo.Remove(ctx, id); err != nil {
		return err
	}

	metrics.BlogsDeleted.Inc()
	s.publish(Event{Type: EventBlogDeleted, Blog: blog})

	s.log.WithFields(ctx, logger.Fields{
		"blog_id": string(id),
		"user_id": claims.UserID,
		"action":  "blog_deleted",
	}).Info("blog deleted")

	return nil
}

// Stats aggregates over a snapshot of the full collection.
type Stats struct {
	TotalLikes   int               `json:"totalLikes"`
	FavoriteBlog *stats.Favorite   `json:"favoriteBlog,omitempty"`
	MostBlogs    stats.AuthorCount `json:"mostBlogs"`
	MostLikes    stats.AuthorLikes `json:"mostLikes"`
}

func (s *BlogService) Stats(ctx context.Context) (Stats, error) {
	blogs, err := s.repo.FindAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	result := Stats{
		TotalLikes: stats.TotalLikes(blogs),
		MostBlogs:  stats.MostBlogs(blogs),
		MostLikes:  stats.MostLikes(blogs),
	}

	if favorite, err := stats.FavoriteBlog(blogs); err == nil {
		result.FavoriteBlog = &favorite
	}

	metrics.StatsComputed.Inc()

	return result, nil
}

func (s *BlogService) publish(event Event) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}

func (s *BlogService) validateCreate(input CreateInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) && len(valErrs) > 0 {
		fields := make([]string, 0, len(valErrs))
		for _, fe := range valErrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		return commonerrors.NewValidationError(
			"VALIDATION_FAILED",
			fmt.Sprintf("invalid or missing fields: %s", strings.Join(fields, ", ")),
		)
	}

	return commonerrors.NewValidationError("VALIDATION_FAILED", "validation failed")
}
