package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/solofunds/kyc-service/internal/api/metrics"
)

// Allower abstracts the attempt-limiter store (Redis).
type Allower interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

// AttemptLimit caps verification step submissions per user id. Requests
// without a user_id pass through — the step's completeness gate rejects them
// with the proper message. When the store is unreachable the limiter fails
// open so Redis downtime cannot block verification.
func AttemptLimit(limiter Allower, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.FormValue("user_id")
			if userID == "" {
				return next(c)
			}

			ok, err := limiter.Allow(c.Request().Context(), userID)
			if err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("attempt limiter unavailable, failing open")
				return next(c)
			}
			if !ok {
				metrics.AttemptsLimitedTotal.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many verification attempts, try again later")
			}

			return next(c)
		}
	}
}
