package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("bad input", nil), "VALIDATION_FAILED", http.StatusUnprocessableEntity},
		{NewNotFound("ticket", nil), "NOT_FOUND", http.StatusNotFound},
		{NewUnauthorized("invalid credentials"), "UNAUTHORIZED", http.StatusUnauthorized},
		{NewPermissionDenied("nope"), "PERMISSION_DENIED", http.StatusForbidden},
		{NewConflict("duplicate", nil), "CONFLICT", http.StatusConflict},
	}
	for _, tc := range cases {
		domainErr := ToDomainError(tc.err)
		require.Equal(t, tc.code, domainErr.Code)
		require.Equal(t, tc.status, domainErr.HTTPStatus)
	}
}

func TestToDomainErrorMapsNoRowsToNotFound(t *testing.T) {
	domainErr := ToDomainError(pgx.ErrNoRows)
	require.Equal(t, "NOT_FOUND", domainErr.Code)

	wrapped := ToDomainError(fmt.Errorf("loading ticket: %w", pgx.ErrNoRows))
	require.Equal(t, "NOT_FOUND", wrapped.Code)
}

func TestToDomainErrorWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection refused")
	domainErr := ToDomainError(cause)
	require.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	require.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	require.ErrorIs(t, domainErr, cause)

	require.Nil(t, ToDomainError(nil))
}

func TestToDomainErrorPreservesWrappedDomainError(t *testing.T) {
	inner := NewPermissionDenied("nope")
	wrapped := fmt.Errorf("updating ticket: %w", inner)
	require.Equal(t, "PERMISSION_DENIED", ToDomainError(wrapped).Code)
	require.True(t, IsPermissionDenied(wrapped))
}

func TestPredicates(t *testing.T) {
	require.True(t, IsValidation(NewValidationError("bad", nil)))
	require.True(t, IsNotFound(NewNotFound("user", nil)))
	require.False(t, IsValidation(NewNotFound("user", nil)))
	require.False(t, IsNotFound(errors.New("plain")))
}
