package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/floor"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
)

// bindData decodes a {"data": {...}} request body into dst.
func bindData(c *gin.Context, dst interface{}) error {
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return services.NewValidationError("request body must be a JSON object with a data field")
	}
	if len(body.Data) == 0 || string(body.Data) == "null" {
		return services.NewValidationError("data is required")
	}
	if err := json.Unmarshal(body.Data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return services.NewValidationError("%s has the wrong type", typeErr.Field)
		}
		return services.NewValidationError("data must be a JSON object")
	}
	return nil
}

// respondBindError answers a failed bindData.
func respondBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.RespondError(c, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
		return
	}
	utils.RespondServiceError(c, err)
}

// publish sends a floor event. Delivery problems never fail the request.
func publish(c *gin.Context, events floor.Publisher, event floor.Event) {
	if events == nil {
		return
	}
	ctx := context.WithoutCancel(c.Request.Context())
	if err := events.Publish(ctx, event); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"request_id": c.GetString(utils.RequestIDKey),
			"event":      event.Type,
		}).Errorf("failed to publish floor event: %v", err)
	}
}

// flexibleID accepts an id sent as a JSON number or a numeric string.
// Anything else decodes to zero, which the services treat as missing.
type flexibleID uint

func (id *flexibleID) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		*id = 0
		return nil
	}
	*id = flexibleID(n)
	return nil
}
