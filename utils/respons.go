package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/services"
)

type DataResponse struct {
	Data interface{} `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondJSON(c *gin.Context, code int, data interface{}) {
	if code == http.StatusNoContent {
		c.Status(code)
		return
	}
	c.JSON(code, DataResponse{Data: data})
}

func RespondError(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: err.Error()})
}

// RespondServiceError maps the service error taxonomy onto HTTP status codes.
// Anything unrecognised is logged and hidden behind a generic 500.
func RespondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		RespondError(c, http.StatusBadRequest, validationErr)
	case errors.As(err, &notFoundErr):
		RespondError(c, http.StatusNotFound, notFoundErr)
	default:
		ErrorLogger.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		}).Errorf("unexpected error: %v", err)
		RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
