// Package response implements the uniform API envelope: successful calls
// return {success, message?, data}, failures return {success:false, code,
// message} with the HTTP status mirroring the code.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicore/hms/internal/platform/apperr"
)

// Envelope is the success wrapper for every API payload.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// ErrorBody is the structured error object returned on failure.
type ErrorBody struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK writes data wrapped in the success envelope.
func OK(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// OKMessage writes data with an explanatory message.
func OKMessage(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// ErrorHandler returns an echo HTTPErrorHandler that maps the apperr taxonomy
// onto the error envelope. Unrecognised errors become opaque 500s; the cause
// is logged, never leaked.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := apperr.HTTPStatus(err)
		body := ErrorBody{Success: false, Code: string(apperr.CodeInternal), Message: "internal server error"}

		if ae := apperr.FromError(err); ae != nil {
			body.Code = string(ae.Code)
			body.Message = ae.Message
		} else if he, ok := err.(*echo.HTTPError); ok {
			// Routing-level errors from echo itself (404 on unknown
			// path, 405, body binding failures).
			status = he.Code
			body.Code = codeForStatus(he.Code)
			if msg, ok := he.Message.(string); ok {
				body.Message = msg
			} else {
				body.Message = http.StatusText(he.Code)
			}
		} else {
			logger.Error().Err(err).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(apperr.CodeValidation)
	case http.StatusNotFound:
		return string(apperr.CodeNotFound)
	case http.StatusConflict:
		return string(apperr.CodeConflict)
	default:
		return string(apperr.CodeInternal)
	}
}
