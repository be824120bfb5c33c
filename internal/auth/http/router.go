package http

import (
	"net/http"
	"time"

	"github.com/avolkov/bloglist/internal/auth/service"
	commonhttp "github.com/avolkov/bloglist/internal/common/http"
	"github.com/avolkov/bloglist/internal/common/logger"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type Handler struct {
	login        *service.LoginService
	errorHandler *commonhttp.ErrorHandler
	log          *logger.Logger
}

func NewHandler(login *service.LoginService, requestTimeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		login:        login,
		errorHandler: commonhttp.NewErrorHandler(log),
		log:          log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login",
		commonhttp.RequireMethod(http.MethodPost)(
			commonhttp.WithTimeout(requestTimeout)(h.loginHandler),
		),
	)
	return mux
}

func (h *Handler) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := h.login.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{
		Token:    result.Token,
		Username: result.Username,
		Name:     result.Name,
	})
}
