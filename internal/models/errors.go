package models

import (
	apperrors "github.com/Sharruk/TravelGuard/pkg/errors"
)

var (
	ErrInvalidCredentials = apperrors.Unauthorized("Invalid credentials")
	ErrUsernameExists     = apperrors.Conflict("Username already exists")
	ErrPasswordTooLong    = apperrors.BadRequest("Password too long")
	ErrTouristNotFound    = apperrors.NotFound("Tourist not found")
	ErrAlertNotFound      = apperrors.NotFound("Alert not found")
	ErrResponderNotFound  = apperrors.NotFound("Responder not found")
)
