package commonerrors

import "net/http"

var (
	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		CategoryValidation,
		http.StatusInternalServerError,
		"missing required environment variable",
	)

	ErrInvalidJWTSecret = NewDomainError(
		"INVALID_JWT_SECRET",
		CategoryValidation,
		http.StatusInternalServerError,
		"JWT_SECRET must be at least 32 bytes",
	)

	// ErrInvalidToken covers every token failure mode: absent header, empty
	// token, malformed token, bad signature, missing claims.
	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"token missing or invalid",
	)

	// ErrOwnershipDenied is returned when an authenticated identity tries to
	// mutate a blog it does not own.
	ErrOwnershipDenied = NewDomainError(
		"OWNERSHIP_DENIED",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"user is invalid",
	)

	ErrInvalidCredentials = NewDomainError(
		"INVALID_CREDENTIALS",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid username or password",
	)

	ErrBlogNotFound = NewDomainError(
		"BLOG_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"blog not found",
	)

	ErrUserNotFound = NewDomainError(
		"USER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"user not found",
	)

	ErrMalformedID = NewDomainError(
		"MALFORMED_ID",
		CategoryValidation,
		http.StatusBadRequest,
		"malformatted id",
	)

	ErrUsernameTaken = NewDomainError(
		"USERNAME_TAKEN",
		CategoryValidation,
		http.StatusBadRequest,
		"username already taken",
	)

	ErrInternal = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)
)
