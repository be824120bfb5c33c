package service

import (
	"strings"

	"github.com/avolkov/bloglist/internal/blog/domain"
	commonerrors "github.com/avolkov/bloglist/internal/common/errors"
	"github.com/avolkov/bloglist/internal/common/jwtverify"
	"github.com/avolkov/bloglist/internal/observability/metrics"
)

// AuthorizeOwnership decides whether the resolved identity may mutate blog.
// It is a pure comparison over already-fetched state: identifiers are
// normalized to strings at the boundary and compared exactly.
func AuthorizeOwnership(claims jwtverify.Claims, blog domain.Blog) error {
	if strings.TrimSpace(claims.UserID) == "" {
		metrics.OwnershipDenied.Inc()
		return commonerrors.ErrOwnershipDenied
	}
	if claims.UserID != blog.OwnerID {
		metrics.OwnershipDenied.Inc()
		return commonerrors.ErrOwnershipDenied
	}
	return nil
}
