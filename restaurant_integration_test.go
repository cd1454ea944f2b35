package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/database"
	"github.com/yeremiapane/reservation-app/router"
	"github.com/yeremiapane/reservation-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	utils.InitLogger("error", "text")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupServer builds the full stack on a fresh in-memory database.
func setupServer(t *testing.T, env map[string]string) *gin.Engine {
	t.Helper()

	base := map[string]string{"DB_DSN": ":memory:", "RATE_LIMIT_RPS": "0", "SEED_TABLES": "true"}
	for k, v := range env {
		base[k] = v
	}
	cfg, err := config.FromEnv(func(key string) string { return base[key] })
	require.NoError(t, err)

	db, err := database.Open(cfg, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.Migrate(db))
	_, err = database.SeedTables(db)
	require.NoError(t, err)

	return router.SetupRouter(router.Options{DB: db, Config: cfg})
}

func call(t *testing.T, r *gin.Engine, method, path, token string, data interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body bytes.Buffer
	if data != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(map[string]interface{}{"data": data}))
	}
	req, err := http.NewRequest(method, path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	}
	return w.Code, response
}

func idOf(t *testing.T, response map[string]interface{}, field string) int {
	t.Helper()
	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", response)
	return int(data[field].(float64))
}

// TestEndToEndIntegration walks a party from booking to leaving.
func TestEndToEndIntegration(t *testing.T) {
	r := setupServer(t, nil)
	const date = "2030-06-01"

	code, resp := call(t, r, "POST", "/tables", "", map[string]interface{}{"table_name": "A1", "capacity": 4})
	require.Equal(t, http.StatusCreated, code, resp)
	tableID := idOf(t, resp, "table_id")

	code, resp = call(t, r, "POST", "/reservations", "", map[string]interface{}{
		"first_name":       "Rick",
		"last_name":        "Sanchez",
		"mobile_number":    "(555) 123-4567",
		"reservation_date": date,
		"reservation_time": "18:30",
		"people":           2,
	})
	require.Equal(t, http.StatusCreated, code, resp)
	assert.Equal(t, "booked", resp["data"].(map[string]interface{})["status"])
	reservationID := idOf(t, resp, "reservation_id")

	code, resp = call(t, r, "GET", fmt.Sprintf("/reservations/%d", reservationID), "", nil)
	require.Equal(t, http.StatusOK, code)
	read := resp["data"].(map[string]interface{})
	assert.Equal(t, "Rick", read["first_name"])
	assert.Equal(t, "(555) 123-4567", read["mobile_number"])
	assert.Equal(t, date, read["reservation_date"])
	assert.Equal(t, "18:30", read["reservation_time"])
	assert.Equal(t, float64(2), read["people"])

	code, resp = call(t, r, "GET", "/reservations?mobile_number=555123", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["data"], 1)

	code, resp = call(t, r, "PUT", fmt.Sprintf("/tables/%d/seat", tableID), "", map[string]interface{}{"reservation_id": reservationID})
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, float64(reservationID), resp["data"].(map[string]interface{})["reservation_id"])

	// seated parties stay on the day's list
	code, resp = call(t, r, "GET", "/reservations?date="+date, "", nil)
	require.Equal(t, http.StatusOK, code)
	listed := resp["data"].([]interface{})
	require.Len(t, listed, 1)
	assert.Equal(t, "seated", listed[0].(map[string]interface{})["status"])

	// the host then marks the party seated explicitly
	code, resp = call(t, r, "PUT", fmt.Sprintf("/reservations/%d/status", reservationID), "", map[string]interface{}{"status": "seated"})
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, "seated", resp["data"].(map[string]interface{})["status"])

	code, resp = call(t, r, "GET", "/reservations?date="+date, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["data"], 1)

	code, resp = call(t, r, "DELETE", fmt.Sprintf("/tables/%d/seat", tableID), "", nil)
	require.Equal(t, http.StatusOK, code, resp)
	assert.Nil(t, resp["data"].(map[string]interface{})["reservation_id"])

	code, resp = call(t, r, "GET", fmt.Sprintf("/reservations/%d", reservationID), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "finished", resp["data"].(map[string]interface{})["status"])

	code, resp = call(t, r, "GET", "/reservations?date="+date, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp["data"])

	code, resp = call(t, r, "DELETE", fmt.Sprintf("/tables/%d/seat", tableID), "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, resp["error"])

	code, resp = call(t, r, "GET", "/tables", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["data"], 5)
}

func TestIntegrationErrors(t *testing.T) {
	r := setupServer(t, nil)

	code, resp := call(t, r, "GET", "/reservations/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, resp["error"])

	code, _ = call(t, r, "PUT", "/reservations/999/status", "", map[string]interface{}{"status": "seated"})
	assert.Equal(t, http.StatusNotFound, code)

	code, resp = call(t, r, "POST", "/reservations", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, resp["error"])

	code, _ = call(t, r, "GET", "/reservations?date=tomorrow", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, r, "GET", "/no-such-route", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestIntegrationStaffAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	r := setupServer(t, map[string]string{
		"STAFF_JWT_SECRET":    "integration-secret",
		"STAFF_PASSWORD_HASH": string(hash),
	})

	code, _ := call(t, r, "GET", "/tables", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, r, "POST", "/auth/login", "", map[string]interface{}{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, resp := call(t, r, "POST", "/auth/login", "", map[string]interface{}{"password": "hunter2"})
	require.Equal(t, http.StatusOK, code)
	data := resp["data"].(map[string]interface{})
	token := data["token"].(string)
	assert.NotEmpty(t, data["expires_at"])

	code, resp = call(t, r, "GET", "/tables", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["data"], 4)

	code, _ = call(t, r, "GET", "/ping", "", nil)
	assert.Equal(t, http.StatusOK, code)
}
