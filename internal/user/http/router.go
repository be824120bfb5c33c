package http

import (
	"net/http"
	"time"

	blogdomain "github.com/avolkov/bloglist/internal/blog/domain"
	commonhttp "github.com/avolkov/bloglist/internal/common/http"
	"github.com/avolkov/bloglist/internal/common/logger"
	"github.com/avolkov/bloglist/internal/user/service"
)

type createUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// userResponse never carries the credential hash.
type userResponse struct {
	ID       string         `json:"id"`
	Username string         `json:"username"`
	Name     string         `json:"name"`
	Blogs    []userBlogItem `json:"blogs,omitempty"`
}

type userBlogItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}

type Handler struct {
	users        *service.UserService
	errorHandler *commonhttp.ErrorHandler
	log          *logger.Logger
}

// NewHandler serves user registration. Registration is deliberately outside
// the token middleware; the protected listing is exposed separately through
// ListHandler.
func NewHandler(users *service.UserService, requestTimeout time.Duration, log *logger.Logger) http.Handler {
	h := newHandler(users, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users",
		commonhttp.RequireMethod(http.MethodPost)(
			commonhttp.WithTimeout(requestTimeout)(h.create),
		),
	)
	return mux
}

// ListHandler serves GET /api/users behind the token middleware.
func ListHandler(users *service.UserService, requestTimeout time.Duration, log *logger.Logger) http.HandlerFunc {
	h := newHandler(users, log)
	return commonhttp.RequireMethod(http.MethodGet)(
		commonhttp.WithTimeout(requestTimeout)(h.list),
	)
}

func newHandler(users *service.UserService, log *logger.Logger) *Handler {
	return &Handler{
		users:        users,
		errorHandler: commonhttp.NewErrorHandler(log),
		log:          log,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("user create failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, userResponse{
		ID:       string(user.ID),
		Username: user.Username,
		Name:     user.Name,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	listed, err := h.users.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(listed))
	for _, item := range listed {
		out = append(out, userResponse{
			ID:       string(item.User.ID),
			Username: item.User.Username,
			Name:     item.User.Name,
			Blogs:    toUserBlogItems(item.Blogs),
		})
	}

	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func toUserBlogItems(blogs []blogdomain.Blog) []userBlogItem {
	items := make([]userBlogItem, 0, len(blogs))
	for _, b := range blogs {
		items = append(items, userBlogItem{
			ID:     string(b.ID),
			Title:  b.Title,
			Author: b.Author,
			URL:    b.URL,
			Likes:  b.Likes,
		})
	}
	return items
}
