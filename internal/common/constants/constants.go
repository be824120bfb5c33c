package constants

import "time"

const (
	UsernameMinLength  = 3
	UsernameMaxLength  = 32
	PasswordMinLength  = 3
	PasswordMaxLength  = 72
	JWTSecretMinLength = 32

	BcryptCost = 10

	MaxTitleLength  = 200
	MaxAuthorLength = 100
	MaxURLLength    = 2048

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	RateLimitCleanupInterval           = 5 * time.Minute
	RateLimitLoginRequestsPerSecond    = 1
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 1
	RateLimitRegisterBurst             = 3
	RateLimitGeneralRequestsPerSecond  = 50
	RateLimitGeneralBurst              = 100

	EventFeedSendBufferSize = 64
	EventFeedWriteWait      = 10 * time.Second
	EventFeedPongWait       = 60 * time.Second
	EventFeedPingPeriod     = 54 * time.Second
)

type ContextKey string

const TraceIDKey ContextKey = "trace_id"
