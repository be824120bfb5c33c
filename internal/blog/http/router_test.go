package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/avolkov/bloglist/internal/blog/domain"
	blogrepo "github.com/avolkov/bloglist/internal/blog/repository"
	"github.com/avolkov/bloglist/internal/blog/service"
	"github.com/avolkov/bloglist/internal/common/clock"
	commoncrypto "github.com/avolkov/bloglist/internal/common/crypto"
	commonerrors "github.com/avolkov/bloglist/internal/common/errors"
	"github.com/avolkov/bloglist/internal/common/jwtverify"
	"github.com/avolkov/bloglist/internal/common/logger"
	userdomain "github.com/avolkov/bloglist/internal/user/domain"
)

// memoryRepo is an in-memory blog store for handler tests.
type memoryRepo struct {
	mu    sync.Mutex
	blogs map[domain.ID]domain.Blog
}

func newMemoryRepo(seed ...domain.Blog) *memoryRepo {
	r := &memoryRepo{blogs: make(map[domain.ID]domain.Blog)}
	for _, b := range seed {
		r.blogs[b.ID] = b
	}
	return r
}

func (r *memoryRepo) FindAll(ctx context.Context) ([]domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Blog, 0, len(r.blogs))
	for _, b := range r.blogs {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id domain.ID) (domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[id]
	if !ok {
		return domain.Blog{}, blogrepo.ErrBlogNotFound
	}
	return b, nil
}

func (r *memoryRepo) FindByOwner(ctx context.Context, ownerID string) ([]domain.Blog, error) {
	all, _ := r.FindAll(ctx)
	out := make([]domain.Blog, 0, len(all))
	for _, b := range all {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memoryRepo) Insert(ctx context.Context, blog domain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blogs[blog.ID] = blog
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, id domain.ID, update domain.Update) (domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[id]
	if !ok {
		return domain.Blog{}, blogrepo.ErrBlogNotFound
	}
	if update.Title != nil {
		b.Title = *update.Title
	}
	if update.Author != nil {
		b.Author = *update.Author
	}
	if update.URL != nil {
		b.URL = *update.URL
	}
	if update.Likes != nil {
		b.Likes = *update.Likes
	}
	r.blogs[id] = b
	return b, nil
}

func (r *memoryRepo) Remove(ctx context.Context, id domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blogs, id)
	return nil
}

var _ blogrepo.Repository = (*memoryRepo)(nil)

// knownUsersResolver accepts every id unless the id is listed as deleted.
type knownUsersResolver struct {
	deleted map[string]bool
}

func (r *knownUsersResolver) ResolveUser(ctx context.Context, userID string) (userdomain.User, error) {
	if userID == "" || r.deleted[userID] {
		return userdomain.User{}, commonerrors.ErrInvalidToken
	}
	return userdomain.User{ID: userdomain.ID(userID)}, nil
}

func newTestHandler(t *testing.T, repo blogrepo.Repository) http.Handler {
	return newTestHandlerWithResolver(t, repo, &knownUsersResolver{})
}

func newTestHandlerWithResolver(t *testing.T, repo blogrepo.Repository, resolver service.UserResolver) http.Handler {
	t.Helper()
	log, err := logger.New(t.TempDir(), "blog-http-test", "ERROR")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	svc := service.NewBlogService(
		repo,
		commoncrypto.NewUUIDGenerator(),
		clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		nil,
		resolver,
		log,
	)
	return NewHandler(svc, nil, time.Second, log)
}

func authedRequest(method, target string, body []byte, claims jwtverify.Claims) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	return r.WithContext(jwtverify.WithClaims(r.Context(), claims))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body %q: %v", w.Body.String(), err)
	}
	return body["error"]
}

const (
	ownerID    = "owner-1"
	seedBlogID = "6b837f3e-3c3b-4f8f-9b6e-2f4d6a1c0c01"
)

func seedBlog() domain.Blog {
	return domain.Blog{
		ID:        seedBlogID,
		Title:     "Canonical string reduction",
		Author:    "Edsger W. Dijkstra",
		URL:       "https://example.com/csr",
		Likes:     12,
		OwnerID:   ownerID,
		CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestListBlogs(t *testing.T) {
	handler := newTestHandler(t, newMemoryRepo(seedBlog()))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/blogs", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var blogs []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &blogs); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(blogs) != 1 {
		t.Fatalf("expected 1 blog, got %d", len(blogs))
	}
	if blogs[0]["title"] != "Canonical string reduction" {
		t.Errorf("unexpected title: %v", blogs[0]["title"])
	}
	if blogs[0]["user"] != ownerID {
		t.Errorf("expected owner in user field, got %v", blogs[0]["user"])
	}
}

func TestCreateBlog_WithoutIdentityAnswers401(t *testing.T) {
	repo := newMemoryRepo()
	handler := newTestHandler(t, repo)

	body := []byte(`{"title":"New blog","url":"https://example.com/new"}`)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/blogs", bytes.NewReader(body)))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "token missing or invalid" {
		t.Errorf("unexpected error body: %q", msg)
	}
	if all, _ := repo.FindAll(context.Background()); len(all) != 0 {
		t.Error("nothing must be persisted without a valid identity")
	}
}

func TestCreateBlog_DefaultsLikes(t *testing.T) {
	handler := newTestHandler(t, newMemoryRepo())

	body := []byte(`{"title":"New blog","author":"Ann","url":"https://example.com/new"}`)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodPost, "/api/blogs", body, jwtverify.Claims{UserID: ownerID, Username: "alice"}))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if created["likes"] != float64(0) {
		t.Errorf("expected likes 0, got %v", created["likes"])
	}
	if created["user"] != ownerID {
		t.Errorf("expected creator as owner, got %v", created["user"])
	}
	if created["id"] == "" {
		t.Error("expected an assigned id")
	}
}

func TestCreateBlog_MissingTitleAnswers400(t *testing.T) {
	handler := newTestHandler(t, newMemoryRepo())

	body := []byte(`{"url":"https://example.com/untitled"}`)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodPost, "/api/blogs", body, jwtverify.Claims{UserID: ownerID}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if msg := decodeError(t, w); !strings.Contains(msg, "title") {
		t.Errorf("expected message naming the title field, got %q", msg)
	}
}

func TestCreateBlog_InvalidJSONAnswers400(t *testing.T) {
	handler := newTestHandler(t, newMemoryRepo())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodPost, "/api/blogs", []byte(`{not json`), jwtverify.Claims{UserID: ownerID}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateBlog_MalformedID(t *testing.T) {
	handler := newTestHandler(t, newMemoryRepo(seedBlog()))

	body := []byte(`{"likes":13}`)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodPut, "/api/blogs/not-a-uuid", body, jwtverify.Claims{UserID: ownerID}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "malformatted id" {
		t.Errorf("unexpected error body: %q", msg)
	}
}

func TestUpdateBlog_UnknownIDAnswers404(t *testing.T) {
	handler := newTestHandler(t, newMemoryRepo())

	body := []byte(`{"likes":13}`)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodPut, "/api/blogs/"+seedBlogID, body, jwtverify.Claims{UserID: ownerID}))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "blog not found" {
		t.Errorf("unexpected error body: %q", msg)
	}
}

func TestUpdateBlog_NonOwnerAnswers401AndLeavesEntry(t *testing.T) {
	repo := newMemoryRepo(seedBlog())
	handler := newTestHandler(t, repo)

	body := []byte(`{"likes":999}`)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodPut, "/api/blogs/"+seedBlogID, body, jwtverify.Claims{UserID: "intruder"}))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "user is invalid" {
		t.Errorf("unexpected error body: %q", msg)
	}

	kept, err := repo.FindByID(context.Background(), seedBlogID)
	if err != nil {
		t.Fatalf("seed blog must survive: %v", err)
	}
	if kept.Likes != 12 {
		t.Errorf("entry must be unmodified, got likes %d", kept.Likes)
	}
}

func TestUpdateBlog_OwnerBumpsLikes(t *testing.T) {
	handler := newTestHandler(t, newMemoryRepo(seedBlog()))

	body := []byte(`{"likes":13}`)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodPut, "/api/blogs/"+seedBlogID, body, jwtverify.Claims{UserID: ownerID}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if updated["likes"] != float64(13) {
		t.Errorf("expected likes 13, got %v", updated["likes"])
	}
	if updated["title"] != "Canonical string reduction" {
		t.Errorf("omitted fields must stay unchanged, got title %v", updated["title"])
	}
}

func TestDeleteBlog_NonOwnerAnswers401(t *testing.T) {
	repo := newMemoryRepo(seedBlog())
	handler := newTestHandler(t, repo)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodDelete, "/api/blogs/"+seedBlogID, nil, jwtverify.Claims{UserID: "intruder"}))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if _, err := repo.FindByID(context.Background(), seedBlogID); err != nil {
		t.Error("entry must survive a denied delete")
	}
}

func TestDeleteBlog_OwnerAnswers204(t *testing.T) {
	repo := newMemoryRepo(seedBlog())
	handler := newTestHandler(t, repo)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodDelete, "/api/blogs/"+seedBlogID, nil, jwtverify.Claims{UserID: ownerID}))

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if all, _ := repo.FindAll(context.Background()); len(all) != 0 {
		t.Error("entry must be removed")
	}
}

func TestDeleteBlog_UnknownIDAnswers204(t *testing.T) {
	handler := newTestHandler(t, newMemoryRepo())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodDelete, "/api/blogs/"+seedBlogID, nil, jwtverify.Claims{UserID: ownerID}))

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for an already absent id, got %d", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	second := seedBlog()
	second.ID = "6b837f3e-3c3b-4f8f-9b6e-2f4d6a1c0c02"
	second.Title = "React patterns"
	second.Author = "Michael Chan"
	second.Likes = 7
	second.CreatedAt = second.CreatedAt.Add(time.Hour)

	handler := newTestHandler(t, newMemoryRepo(seedBlog(), second))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/blogs/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		TotalLikes   int `json:"totalLikes"`
		FavoriteBlog *struct {
			Title string `json:"title"`
		} `json:"favoriteBlog"`
		MostBlogs struct {
			Author string `json:"author"`
			Blogs  int    `json:"blogs"`
		} `json:"mostBlogs"`
		MostLikes struct {
			Author string `json:"author"`
			Likes  int    `json:"likes"`
		} `json:"mostLikes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.TotalLikes != 19 {
		t.Errorf("expected 19 total likes, got %d", body.TotalLikes)
	}
	if body.FavoriteBlog == nil || body.FavoriteBlog.Title != "Canonical string reduction" {
		t.Errorf("unexpected favorite: %+v", body.FavoriteBlog)
	}
	if body.MostLikes.Author != "Edsger W. Dijkstra" || body.MostLikes.Likes != 12 {
		t.Errorf("unexpected mostLikes: %+v", body.MostLikes)
	}
}

func TestCreateBlog_DeletedUserAnswers401(t *testing.T) {
	repo := newMemoryRepo()
	resolver := &knownUsersResolver{deleted: map[string]bool{"ghost": true}}
	handler := newTestHandlerWithResolver(t, repo, resolver)

	body := []byte(`{"title":"Orphaned token","url":"https://example.com/orphan"}`)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodPost, "/api/blogs", body, jwtverify.Claims{UserID: "ghost"}))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "token missing or invalid" {
		t.Errorf("unexpected error body: %q", msg)
	}
	if all, _ := repo.FindAll(context.Background()); len(all) != 0 {
		t.Error("nothing must be persisted for a token without a stored user")
	}
}

func TestEntryPoint_RoutesByMethodAndPath(t *testing.T) {
	var served string
	open := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { served = "open" })
	verified := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { served = "verified" })

	tests := []struct {
		name         string
		method       string
		path         string
		protectReads bool
		want         string
	}{
		{"protected get", http.MethodGet, "/api/blogs", true, "verified"},
		{"open get", http.MethodGet, "/api/blogs", false, "open"},
		{"open stats", http.MethodGet, "/api/blogs/stats", false, "open"},
		{"post always verified", http.MethodPost, "/api/blogs", false, "verified"},
		{"delete always verified", http.MethodDelete, "/api/blogs/" + seedBlogID, false, "verified"},
		{"event feed always verified", http.MethodGet, "/api/blogs/events", false, "verified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			served = ""
			entry := EntryPoint(open, verified, tt.protectReads)
			entry.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))
			if served != tt.want {
				t.Errorf("expected the %s handler, got %q", tt.want, served)
			}
		})
	}
}

func TestCollection_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t, newMemoryRepo())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/blogs", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestStatsEndpoint_PostNotAllowed(t *testing.T) {
	handler := newTestHandler(t, newMemoryRepo())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/blogs/stats", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
