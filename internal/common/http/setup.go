package http

import (
	"net/http"

	"github.com/avolkov/bloglist/internal/common/constants"
	"github.com/avolkov/bloglist/internal/common/httpmetrics"
	"github.com/avolkov/bloglist/internal/common/logger"
)

// BuildBaseHandler wraps handler with the ambient middleware chain shared by
// every route: security headers, panic recovery, trace ids, body size cap and
// request metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware

	return securityHeaders(recovery(traceID(maxRequestSize(metrics.Wrap(handler)))))
}
