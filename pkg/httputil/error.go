package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/warped-finance/backend/pkg/models"
)

// HTTPError is used for error responses that contain a body.
type HTTPError struct {
	Error string `json:"error" example:"there is no transaction matching your query"`
}

// NewError writes an HTTPError with the status.
func NewError(c *gin.Context, status int, err error) {
	c.JSON(status, HTTPError{
		Error: err.Error(),
	})
}

// Status returns the HTTP status for an error.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// ErrorHandler writes the error with the matching status.
//
// Messages of unexpected errors are logged and replaced with a general message
// so that no internals leak to clients.
func ErrorHandler(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		if !errors.Is(err, models.ErrGeneral) {
			log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		}

		NewError(c, status, models.ErrGeneral)
		return
	}

	NewError(c, status, err)
}
