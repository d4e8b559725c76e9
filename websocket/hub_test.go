package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func dialTestClient(t *testing.T, hub *Hub, isAdmin bool) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.register <- &Client{
			UserID:  primitive.NewObjectID(),
			IsAdmin: isAdmin,
			Conn:    conn,
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		connected := len(hub.clients)
		hub.mu.RUnlock()
		if connected >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d connected clients", n)
}

func TestBroadcastToAdminsReachesAdminsOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	admin := dialTestClient(t, hub, true)
	member := dialTestClient(t, hub, false)
	waitForClients(t, hub, 2)

	hub.NotifyBookingCreated(map[string]string{"assetId": "AB12"})

	var event Event
	require.NoError(t, admin.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, admin.ReadJSON(&event))
	require.Equal(t, EventBookingCreated, event.Type)

	require.NoError(t, member.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	var unexpected Event
	require.Error(t, member.ReadJSON(&unexpected), "non-admin client must not receive admin broadcasts")
}

func TestConcurrentBroadcastsDoNotInterleaveWrites(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	admin := dialTestClient(t, hub, true)
	waitForClients(t, hub, 1)

	const broadcasts = 50
	var wg sync.WaitGroup
	for i := 0; i < broadcasts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.NotifyPaymentRecorded(map[string]string{"assetId": "AB12"})
		}()
	}
	wg.Wait()

	require.NoError(t, admin.SetReadDeadline(time.Now().Add(5*time.Second)))
	for i := 0; i < broadcasts; i++ {
		var event Event
		require.NoError(t, admin.ReadJSON(&event))
		require.Equal(t, EventPaymentRecorded, event.Type)
	}
}
