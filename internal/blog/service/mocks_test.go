package service

import (
	"context"
	"testing"

	"github.com/avolkov/bloglist/internal/blog/domain"
	blogrepo "github.com/avolkov/bloglist/internal/blog/repository"
	"github.com/avolkov/bloglist/internal/common/logger"
	userdomain "github.com/avolkov/bloglist/internal/user/domain"
)

type mockBlogRepo struct {
	findAllFunc     func(ctx context.Context) ([]domain.Blog, error)
	findByIDFunc    func(ctx context.Context, id domain.ID) (domain.Blog, error)
	findByOwnerFunc func(ctx context.Context, ownerID string) ([]domain.Blog, error)
	insertFunc      func(ctx context.Context, blog domain.Blog) error
	updateFunc      func(ctx context.Context, id domain.ID, update domain.Update) (domain.Blog, error)
	removeFunc      func(ctx context.Context, id domain.ID) error
}

func (m *mockBlogRepo) FindAll(ctx context.Context) ([]domain.Blog, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockBlogRepo) FindByID(ctx context.Context, id domain.ID) (domain.Blog, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.Blog{}, blogrepo.ErrBlogNotFound
}

func (m *mockBlogRepo) FindByOwner(ctx context.Context, ownerID string) ([]domain.Blog, error) {
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockBlogRepo) Insert(ctx context.Context, blog domain.Blog) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, blog)
	}
	return nil
}

func (m *mockBlogRepo) Update(ctx context.Context, id domain.ID, update domain.Update) (domain.Blog, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, update)
	}
	return domain.Blog{}, blogrepo.ErrBlogNotFound
}

func (m *mockBlogRepo) Remove(ctx context.Context, id domain.ID) error {
	if m.removeFunc != nil {
		return m.removeFunc(ctx, id)
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "00000000-0000-0000-0000-000000000001", nil
}

// mockUserResolver resolves any id to a matching user unless resolveFunc
// overrides it.
type mockUserResolver struct {
	resolveFunc func(ctx context.Context, userID string) (userdomain.User, error)
}

func (m *mockUserResolver) ResolveUser(ctx context.Context, userID string) (userdomain.User, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, userID)
	}
	return userdomain.User{ID: userdomain.ID(userID), Username: "resolved"}, nil
}

type mockPublisher struct {
	events []Event
}

func (m *mockPublisher) Publish(event Event) {
	m.events = append(m.events, event)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(t.TempDir(), "blog-service-test", "ERROR")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return log
}
