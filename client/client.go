// Package client talks to the reservation API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/yeremiapane/reservation-app/models"
)

const DefaultBaseURL = "http://localhost:5000"

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// ReservationInput is the body of a create or update request.
type ReservationInput struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	MobileNumber    string `json:"mobile_number"`
	ReservationDate string `json:"reservation_date"`
	ReservationTime string `json:"reservation_time"`
	People          int    `json:"people"`
	Status          string `json:"status,omitempty"`
}

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// FromEnv uses API_BASE_URL and, when set, API_TOKEN.
func FromEnv() *Client {
	c := New(os.Getenv("API_BASE_URL"))
	c.Token = os.Getenv("API_TOKEN")
	return c
}

// ListReservations returns the open reservations for date (YYYY-MM-DD).
func (c *Client) ListReservations(ctx context.Context, date string) ([]models.Reservation, error) {
	var out []models.Reservation
	err := c.do(ctx, http.MethodGet, "/reservations?"+url.Values{"date": {date}}.Encode(), nil, &out)
	return out, err
}

// SearchReservations finds reservations whose mobile number contains the digits of mobile.
func (c *Client) SearchReservations(ctx context.Context, mobile string) ([]models.Reservation, error) {
	var out []models.Reservation
	err := c.do(ctx, http.MethodGet, "/reservations?"+url.Values{"mobile_number": {mobile}}.Encode(), nil, &out)
	return out, err
}

func (c *Client) CreateReservation(ctx context.Context, in ReservationInput) (*models.Reservation, error) {
	return c.reservation(ctx, http.MethodPost, "/reservations", in)
}

func (c *Client) ReadReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return c.reservation(ctx, http.MethodGet, fmt.Sprintf("/reservations/%d", id), nil)
}

func (c *Client) UpdateReservation(ctx context.Context, id uint, in ReservationInput) (*models.Reservation, error) {
	return c.reservation(ctx, http.MethodPut, fmt.Sprintf("/reservations/%d", id), in)
}

func (c *Client) SetStatus(ctx context.Context, id uint, status models.ReservationStatus) (*models.Reservation, error) {
	return c.reservation(ctx, http.MethodPut, fmt.Sprintf("/reservations/%d/status", id), map[string]string{"status": string(status)})
}

func (c *Client) CancelReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return c.SetStatus(ctx, id, models.StatusCancelled)
}

func (c *Client) CreateTable(ctx context.Context, name string, capacity int) (*models.Table, error) {
	body := map[string]interface{}{"table_name": name, "capacity": capacity}
	return c.table(ctx, http.MethodPost, "/tables", body)
}

func (c *Client) ListTables(ctx context.Context) ([]models.Table, error) {
	var out []models.Table
	err := c.do(ctx, http.MethodGet, "/tables", nil, &out)
	return out, err
}

func (c *Client) ReadTable(ctx context.Context, id uint) (*models.Table, error) {
	return c.table(ctx, http.MethodGet, fmt.Sprintf("/tables/%d", id), nil)
}

// SeatTable assigns reservationID to table id.
func (c *Client) SeatTable(ctx context.Context, id, reservationID uint) (*models.Table, error) {
	return c.table(ctx, http.MethodPut, fmt.Sprintf("/tables/%d/seat", id), map[string]uint{"reservation_id": reservationID})
}

// FinishTable frees table id.
func (c *Client) FinishTable(ctx context.Context, id uint) (*models.Table, error) {
	return c.table(ctx, http.MethodDelete, fmt.Sprintf("/tables/%d/seat", id), nil)
}

// Login exchanges the staff password for a token and keeps it on the client.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"password": password}, &out); err != nil {
		return "", err
	}
	if out.Token != "" {
		c.Token = out.Token
	}
	return out.Token, nil
}

func (c *Client) reservation(ctx context.Context, method, path string, body interface{}) (*models.Reservation, error) {
	var out *models.Reservation
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) table(ctx context.Context, method, path string, body interface{}) (*models.Table, error) {
	var out *models.Table
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do wraps body in {"data": ...} and unwraps the response data into out.
// A request cancelled through ctx yields no error and leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(map[string]interface{}{"data": body})
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &failure) != nil || failure.Error == "" {
			failure.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: failure.Error}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	envelope := struct {
		Data interface{} `json:"data"`
	}{Data: out}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
