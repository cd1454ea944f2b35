package floor_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/reservation-app/floor"
	"github.com/yeremiapane/reservation-app/models"
)

type failing struct{ calls int }

func (f *failing) Publish(context.Context, floor.Event) error {
	f.calls++
	return errors.New("unavailable")
}

type counting struct{ calls int }

func (c *counting) Publish(context.Context, floor.Event) error {
	c.calls++
	return nil
}

func TestMultiPublishesToAll(t *testing.T) {
	first, second := &failing{}, &counting{}
	multi := floor.Multi{first, second}

	err := multi.Publish(context.Background(), floor.NewEvent(floor.EventTableCreated, nil, &models.Table{TableName: "A1"}))
	assert.EqualError(t, err, "unavailable")
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)

	assert.NoError(t, floor.Nop{}.Publish(context.Background(), floor.Event{}))
}

func TestHubBroadcast(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	hub := floor.NewHub(log)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Unregister(conn)
				return
			}
		}
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	reservation := &models.Reservation{ID: 7, FirstName: "Ann", Status: models.StatusSeated}
	event := floor.NewEvent(floor.EventReservationStatus, reservation, nil)
	event.PreviousStatus = "booked"
	require.NoError(t, hub.Publish(context.Background(), event))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	_, message, err := client.ReadMessage()
	require.NoError(t, err)

	var received map[string]interface{}
	require.NoError(t, json.Unmarshal(message, &received))
	assert.Equal(t, floor.EventReservationStatus, received["event"])
	assert.Equal(t, "booked", received["previous_status"])
	assert.Equal(t, "seated", received["reservation"].(map[string]interface{})["status"])
	assert.NotContains(t, received, "table")

	client.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestNATSPublisherConnectFailure(t *testing.T) {
	_, err := floor.NewNATSPublisher("nats://127.0.0.1:1", "reservations.events")
	assert.Error(t, err)
}

func TestHubDropsClientThatStopsReading(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	hub := floor.NewHub(log)
	hub.WriteWait = 200 * time.Millisecond
	hub.SendBuffer = 4

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Unregister(conn)
				return
			}
		}
	}))
	defer server.Close()

	// connected but never reads
	stalled, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer stalled.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	big := &models.Reservation{FirstName: strings.Repeat("x", 256<<10)}
	event := floor.NewEvent(floor.EventReservationUpdated, big, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 400 && hub.ClientCount() > 0; i++ {
			_ = hub.Publish(context.Background(), event)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publishing blocked on a client that stopped reading")
	}
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 5*time.Second, 20*time.Millisecond)

	// the hub keeps serving once the stalled client is gone
	assert.NoError(t, hub.Publish(context.Background(), floor.NewEvent(floor.EventTableCreated, nil, &models.Table{TableName: "A1"})))
}
