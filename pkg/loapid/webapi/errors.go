package webapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/liftout/liftout/pkg/loteam"
)

// toHTTPError maps the core error taxonomy onto HTTP responses. Precondition
// failures carry the full requirement list so the client can render every
// outstanding gap, not just the first.
func toHTTPError(err error) error {
	var (
		preconditionErr *loteam.PreconditionFailedError
		invalidStateErr *loteam.InvalidStateError
		invalidOpErr    *loteam.InvalidOperationError
	)

	switch {
	case errors.Is(err, loteam.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, loteam.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, loteam.ErrInvitationExpired):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &preconditionErr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":              preconditionErr.Error(),
			"unmet_requirements": preconditionErr.Unmet(),
			"requirements":       preconditionErr.Requirements,
		})
	case errors.As(err, &invalidStateErr):
		return echo.NewHTTPError(http.StatusConflict, invalidStateErr.Reason)
	case errors.As(err, &invalidOpErr):
		return echo.NewHTTPError(http.StatusBadRequest, invalidOpErr.Reason)
	default:
		return err
	}
}
