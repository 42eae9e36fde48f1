package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/solofunds/kyc-service/internal/core/domain"
)

// envelope is the canonical response body: {"msg": <human string>, "data": null}.
// data is reserved for future payloads and stays null on every error.
type envelope struct {
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the {"msg": ..., "data": null} envelope on every failure.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, envelope{Msg: msg, Data: nil})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. The messages are the
	// product's user-facing wording; the sentinel text is that wording.
	switch {
	case errors.Is(err, domain.ErrFieldsIncomplete),
		errors.Is(err, domain.ErrInvalidSSN),
		errors.Is(err, domain.ErrInvalidDOB),
		errors.Is(err, domain.ErrInvalidDocumentType):
		return http.StatusBadRequest, sentinelMessage(err)
	case errors.Is(err, domain.ErrStepForbidden):
		return http.StatusForbidden, domain.ErrStepForbidden.Error()
	case errors.Is(err, domain.ErrStepCompleted):
		return http.StatusConflict, domain.ErrStepCompleted.Error()
	case errors.Is(err, domain.ErrDocumentRejected):
		return http.StatusBadRequest, domain.ErrDocumentRejected.Error()
	case errors.Is(err, domain.ErrSelfieRejected):
		return http.StatusBadRequest, domain.ErrSelfieRejected.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, domain.ErrUserNotFound.Error()
	case errors.Is(err, domain.ErrProviderFailure):
		// Provider detail stays in the logs, never in the response.
		log.Error().Err(err).Str("path", c.Path()).Msg("identity provider failure")
		return http.StatusBadGateway, "identity verification is temporarily unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// sentinelMessage strips wrapping context from invalid-input errors so the
// client sees only the product wording carried by the sentinel.
func sentinelMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrFieldsIncomplete,
		domain.ErrInvalidSSN,
		domain.ErrInvalidDOB,
		domain.ErrInvalidDocumentType,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
