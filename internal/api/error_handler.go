package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/artisthub/ams-client/internal/core/domain"
)

// errorResponse is the canonical error envelope for all console errors.
type errorResponse struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps AuthError kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "kind": "<kind>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		_ = c.JSON(code, resp)
	}
}

var kindStatus = map[domain.ErrorKind]int{
	domain.KindValidation:         http.StatusBadRequest,
	domain.KindConflict:           http.StatusConflict,
	domain.KindInvalidCredentials: http.StatusUnauthorized,
	domain.KindUnauthenticated:    http.StatusUnauthorized,
	domain.KindUnauthorized:       http.StatusUnauthorized,
	domain.KindNetwork:            http.StatusBadGateway,
	domain.KindUnknown:            http.StatusBadGateway,
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// AuthErrors first: they may wrap an echo bind error whose text stays internal.
	var ae *domain.AuthError
	if errors.As(err, &ae) {
		if code, ok := kindStatus[ae.Kind]; ok {
			if ae.Err != nil {
				log.Debug().Err(ae.Err).Str("kind", string(ae.Kind)).Str("path", c.Path()).Msg("request failed")
			}
			return code, errorResponse{Error: ae.Display(), Kind: ae.Kind}
		}
	}

	// Echo's own errors (404 from router, 405, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
