package service

import (
	"fmt"

	"github.com/avolkov/bloglist/internal/common/constants"
	commonerrors "github.com/avolkov/bloglist/internal/common/errors"
)

func validateCredentials(username, password string) error {
	if len(username) < constants.UsernameMinLength {
		return commonerrors.NewValidationError(
			"VALIDATION_USERNAME_LENGTH",
			fmt.Sprintf("username must have at least %d characters", constants.UsernameMinLength),
		)
	}
	if len(username) > constants.UsernameMaxLength {
		return commonerrors.NewValidationError(
			"VALIDATION_USERNAME_LENGTH",
			fmt.Sprintf("username must have at most %d characters", constants.UsernameMaxLength),
		)
	}
	if len(password) < constants.PasswordMinLength {
		return commonerrors.NewValidationError(
			"VALIDATION_PASSWORD_LENGTH",
			fmt.Sprintf("password must have at least %d characters", constants.PasswordMinLength),
		)
	}
	if len(password) > constants.PasswordMaxLength {
		return commonerrors.NewValidationError(
			"VALIDATION_PASSWORD_LENGTH",
			fmt.Sprintf("password must have at most %d characters", constants.PasswordMaxLength),
		)
	}
	return nil
}
