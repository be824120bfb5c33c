package http

import (
	"context"
	"net/http"
	"time"

	"github.com/avolkov/bloglist/internal/blog/domain"
	"github.com/avolkov/bloglist/internal/blog/service"
	commonerrors "github.com/avolkov/bloglist/internal/common/errors"
	commonhttp "github.com/avolkov/bloglist/internal/common/http"
	"github.com/avolkov/bloglist/internal/common/jwtverify"
	"github.com/avolkov/bloglist/internal/common/logger"
)

const blogsPathPrefix = "/api/blogs/"

type Handler struct {
	blogs          *service.BlogService
	errorHandler   *commonhttp.ErrorHandler
	log            *logger.Logger
	requestTimeout time.Duration
}

// NewHandler wires the blog routes. Token verification happens in the
// middleware chain around this handler; ownership checks happen in the
// service once the target is fetched.
func NewHandler(
	blogs *service.BlogService,
	eventFeed http.HandlerFunc,
	requestTimeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		blogs:          blogs,
		errorHandler:   commonhttp.NewErrorHandler(log),
		log:            log,
		requestTimeout: requestTimeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/blogs", h.collection)
	mux.HandleFunc("/api/blogs/stats",
		commonhttp.RequireMethod(http.MethodGet)(
			commonhttp.WithTimeout(requestTimeout)(h.stats),
		),
	)
	if eventFeed != nil {
		mux.HandleFunc("/api/blogs/events", eventFeed)
	}
	mux.HandleFunc(blogsPathPrefix, h.item)
	return mux
}

// EntryPoint selects between the open and the verified handler chain. Reads
// bypass verification only when protectReads is off; mutations and the event
// feed always go through it.
func EntryPoint(open, verified http.Handler, protectReads bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && !protectReads && r.URL.Path != "/api/blogs/events" {
			open.ServeHTTP(w, r)
			return
		}
		verified.ServeHTTP(w, r)
	}
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	rawID, ok := commonhttp.PathSuffix(r.URL.Path, blogsPathPrefix)
	if !ok {
		commonhttp.WriteError(w, http.StatusNotFound, "unknown endpoint")
		return
	}

	id, err := commonhttp.ParseID(rawID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.update(w, r, domain.ID(id))
	case http.MethodDelete:
		h.remove(w, r, domain.ID(id))
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	blogs, err := h.blogs.List(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toBlogResponses(blogs))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, commonerrors.ErrInvalidToken)
		return
	}

	var req blogRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("blog create failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	blog, err := h.blogs.Create(ctx, claims, service.CreateInput{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.Likes,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toBlogResponse(blog))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id domain.ID) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, commonerrors.ErrInvalidToken)
		return
	}

	var req blogRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("blog update failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	update := domain.Update{Likes: req.Likes}
	if req.Title != "" {
		update.Title = &req.Title
	}
	if req.Author != "" {
		update.Author = &req.Author
	}
	if req.URL != "" {
		update.URL = &req.URL
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	blog, err := h.blogs.Update(ctx, claims, id, update)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toBlogResponse(blog))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, id domain.ID) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, commonerrors.ErrInvalidToken)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.blogs.Delete(ctx, claims, id); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	result, err := h.blogs.Stats(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := h.requestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}
