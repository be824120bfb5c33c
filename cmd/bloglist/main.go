package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/avolkov/bloglist/internal/auth/http"
	authservice "github.com/avolkov/bloglist/internal/auth/service"
	"github.com/avolkov/bloglist/internal/blog/events"
	bloghttp "github.com/avolkov/bloglist/internal/blog/http"
	blogrepo "github.com/avolkov/bloglist/internal/blog/repository"
	blogservice "github.com/avolkov/bloglist/internal/blog/service"
	"github.com/avolkov/bloglist/internal/common/clock"
	"github.com/avolkov/bloglist/internal/common/config"
	commoncrypto "github.com/avolkov/bloglist/internal/common/crypto"
	"github.com/avolkov/bloglist/internal/common/db"
	commonhttp "github.com/avolkov/bloglist/internal/common/http"
	"github.com/avolkov/bloglist/internal/common/jwtverify"
	"github.com/avolkov/bloglist/internal/common/logger"
	srv "github.com/avolkov/bloglist/internal/common/server"
	userhttp "github.com/avolkov/bloglist/internal/user/http"
	userrepo "github.com/avolkov/bloglist/internal/user/repository"
	userservice "github.com/avolkov/bloglist/internal/user/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "bloglist", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	if err := db.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	userRepo := userrepo.NewPgRepository(pool)
	blogRepo := blogrepo.NewPgRepository(pool)
	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := commoncrypto.NewUUIDGenerator()
	clk := clock.NewRealClock()

	hub := events.NewHub(log)

	userService := userservice.NewUserService(userRepo, blogRepo, hasher, idGenerator, clk, log)
	tokenIssuer := authservice.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, clk)
	loginService := authservice.NewLoginService(userRepo, hasher, tokenIssuer, log)
	blogService := blogservice.NewBlogService(blogRepo, idGenerator, clk, hub, loginService, log)

	verify := jwtverify.Middleware(cfg.JWTSecret, log)

	blogHandler := bloghttp.NewHandler(blogService, hub.Handler(), cfg.RequestTimeout, log)
	protectedBlogs := verify(blogHandler)

	// GET routes drop the token requirement only when PROTECT_READS is
	// disabled; mutations and the event feed always pass through
	// verification.
	blogEntry := bloghttp.EntryPoint(blogHandler, protectedBlogs, cfg.ProtectReads)

	userHandler := userhttp.NewHandler(userService, cfg.RequestTimeout, log)
	userList := http.HandlerFunc(userhttp.ListHandler(userService, cfg.RequestTimeout, log))
	protectedUserList := verify(userList)

	userEntry := func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			userHandler.ServeHTTP(w, r)
			return
		}
		if !cfg.ProtectReads {
			userList.ServeHTTP(w, r)
			return
		}
		protectedUserList.ServeHTTP(w, r)
	}

	loginHandler := authhttp.NewHandler(loginService, cfg.RequestTimeout, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/api/login", loginHandler)
	mux.HandleFunc("/api/users", userEntry)
	mux.HandleFunc("/api/blogs", blogEntry)
	mux.HandleFunc("/api/blogs/", blogEntry)

	rateLimiter := commonhttp.NewPathRateLimiter()
	baseHandler := commonhttp.BuildBaseHandler(log, mux)
	finalHandler := rateLimiter.Middleware(baseHandler)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, finalHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Info("closing event feed")
			hub.Close()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, log, shutdownHooks)
}
