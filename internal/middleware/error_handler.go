// Package middleware carries the Echo middleware and the central error mapper.
package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"hermanar_app/pkg/apperrors"
)

// ErrorHandler converts the persistence layer's error kinds into HTTP
// statuses with a plain {"error": ...} body. Nothing more structured crosses
// the boundary.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := err.Error()

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	case apperrors.IsValidation(err):
		code = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		code = http.StatusNotFound
	case apperrors.IsIntegrity(err):
		code = http.StatusConflict
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	if err := c.JSON(code, map[string]string{"error": message}); err != nil {
		c.Logger().Error(err)
	}
}
