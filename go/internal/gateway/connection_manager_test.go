package gateway

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialServer(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitConnection(t *testing.T, ch <-chan *Connection) *Connection {
	t.Helper()
	select {
	case conn := <-ch:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted the connection")
		return nil
	}
}

func TestConnectionManager_EvictsSlowConsumer(t *testing.T) {
	cm := NewConnectionManager(ConnectionConfig{SendBufferSize: 1})

	accepted := make(chan *Connection, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := cm.upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		// no write pump, so the send buffer is never drained
		conn := cm.newConnection(ws, "abc", DefaultTopic)
		cm.registerConnection(conn)
		accepted <- conn
	}))
	defer server.Close()

	client := dialServer(t, server)
	conn := waitConnection(t, accepted)
	require.Equal(t, 1, cm.GetConnectionStats().TotalConnections)

	event, err := NewRoundEvent(DefaultTopic, EventTypeRoundUpdated, RoundPayload{})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		cm.handleBroadcast(BroadcastMessage{Topic: DefaultTopic, Event: event})
	}

	stats := cm.GetConnectionStats()
	assert.Equal(t, 0, stats.TotalConnections)
	assert.Equal(t, 0, stats.ActiveTopics)

	// the one buffered event, then the closed channel
	_, ok := <-conn.Send
	assert.True(t, ok)
	_, ok = <-conn.Send
	assert.False(t, ok)

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = client.ReadMessage()
	require.Error(t, err)
	assert.False(t, isTimeout(err), "client should see the connection close, got %v", err)

	// later broadcasts skip the evicted connection
	cm.handleBroadcast(BroadcastMessage{Topic: DefaultTopic, Event: event})
	assert.False(t, cm.SendTo(conn, event))
}

func TestConnectionManager_PongRefreshesLastPing(t *testing.T) {
	cm := NewConnectionManager(ConnectionConfig{
		PingInterval: 20 * time.Millisecond,
		ReadTimeout:  time.Second,
	})

	accepted := make(chan *Connection, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := cm.UpgradeConnection(w, r, "abc", DefaultTopic)
		if assert.NoError(t, err) {
			accepted <- conn
		}
	}))
	defer server.Close()

	client := dialServer(t, server)
	conn := waitConnection(t, accepted)

	// reading lets the client answer pings with pongs
	go func() {
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	require.Eventually(t, func() bool {
		return conn.LastPing().After(conn.ConnectedAt)
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, cm.GetConnectionStats().TotalConnections)
}

func TestConnectionManager_DropsClientThatStopsAnsweringPings(t *testing.T) {
	cm := NewConnectionManager(ConnectionConfig{
		PingInterval: 20 * time.Millisecond,
		ReadTimeout:  100 * time.Millisecond,
	})

	accepted := make(chan *Connection, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := cm.UpgradeConnection(w, r, "abc", DefaultTopic)
		if assert.NoError(t, err) {
			accepted <- conn
		}
	}))
	defer server.Close()

	client := dialServer(t, server)
	conn := waitConnection(t, accepted)

	// the client never reads, so no pong is ever sent
	require.Eventually(t, func() bool {
		return cm.GetConnectionStats().TotalConnections == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, conn.ConnectedAt, conn.LastPing())

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := client.ReadMessage(); err != nil {
			assert.False(t, isTimeout(err), "client should see the connection close, got %v", err)
			break
		}
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
