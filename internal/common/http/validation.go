package http

import (
	"strings"

	"github.com/google/uuid"

	commonerrors "github.com/avolkov/bloglist/internal/common/errors"
)

// ParseID validates a path identifier before it reaches the store. A
// structurally invalid id is a 400, not a lookup miss.
func ParseID(s string) (string, error) {
	if s == "" {
		return "", commonerrors.ErrMalformedID
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", commonerrors.ErrMalformedID.WithCause(err)
	}
	return parsed.String(), nil
}

// PathSuffix extracts the remainder of path after prefix, stripped of any
// trailing segments. Returns false when the path does not match the prefix
// or has no remainder.
func PathSuffix(path, prefix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	remaining := strings.TrimPrefix(path, prefix)
	parts := strings.Split(remaining, "/")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0], true
	}
	return "", false
}
