package livehub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemflow/nemflow/internal/model"
)

func testPrice(region string, rrp float64) model.DispatchPrice {
	return model.DispatchPrice{
		SettlementDate: time.Date(2025, 8, 23, 9, 5, 0, 0, time.UTC),
		Region:         region,
		RRP:            rrp,
		TotalDemand:    9000,
		AvailableGen:   11000,
	}
}

func dialHub(t *testing.T, h *Hub, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func frameType(t *testing.T, frame map[string]json.RawMessage) string {
	t.Helper()
	var typ string
	require.NoError(t, json.Unmarshal(frame["type"], &typ))
	return typ
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ClientCount() == n },
		2*time.Second, 10*time.Millisecond)
}

func TestHandleWS_InitialFrameCarriesLastKnown(t *testing.T) {
	h := NewHub(nil)
	h.Broadcast([]model.DispatchPrice{testPrice("NSW1", 120.5), testPrice("VIC1", 98.2)})

	conn := dialHub(t, h, "userId=u-1")
	frame := readFrame(t, conn)
	assert.Equal(t, FrameInitial, frameType(t, frame))

	var prices map[string]model.DispatchPrice
	require.NoError(t, json.Unmarshal(frame["prices"], &prices))
	require.Len(t, prices, 2)
	assert.Equal(t, 120.5, prices["NSW1"].RRP)
	assert.Equal(t, 98.2, prices["VIC1"].RRP)
}

func TestBroadcast_FiltersByQueryRegions(t *testing.T) {
	h := NewHub(nil)
	conn := dialHub(t, h, "userId=u-1&regions=NSW1,QLD1")
	readFrame(t, conn) // INITIAL
	waitForClients(t, h, 1)

	h.Broadcast([]model.DispatchPrice{
		testPrice("NSW1", 101),
		testPrice("VIC1", 102),
		testPrice("QLD1", 103),
	})

	frame := readFrame(t, conn)
	assert.Equal(t, FramePriceUpdate, frameType(t, frame))

	var prices []model.DispatchPrice
	require.NoError(t, json.Unmarshal(frame["prices"], &prices))
	require.Len(t, prices, 2)
	regions := []string{prices[0].Region, prices[1].Region}
	assert.ElementsMatch(t, []string{"NSW1", "QLD1"}, regions)
}

func TestBroadcast_EmptyFilterReceivesAllRegions(t *testing.T) {
	h := NewHub(nil)
	conn := dialHub(t, h, "userId=u-1")
	readFrame(t, conn)
	waitForClients(t, h, 1)

	h.Broadcast([]model.DispatchPrice{testPrice("NSW1", 101), testPrice("TAS1", 55)})

	frame := readFrame(t, conn)
	var prices []model.DispatchPrice
	require.NoError(t, json.Unmarshal(frame["prices"], &prices))
	assert.Len(t, prices, 2)
}

func TestHandleInbound_SubscribeReplacesFilter(t *testing.T) {
	h := NewHub(nil)
	c := &Client{hub: h, send: make(chan []byte, 4), regions: map[string]bool{"NSW1": true}}

	c.handleInbound([]byte(`{"type":"SUBSCRIBE","regions":["VIC1","SA1","NOPE1"]}`))

	filtered := c.filter([]model.DispatchPrice{
		testPrice("NSW1", 1), testPrice("VIC1", 2), testPrice("SA1", 3),
	})
	require.Len(t, filtered, 2)
	assert.Equal(t, "VIC1", filtered[0].Region)
	assert.Equal(t, "SA1", filtered[1].Region)
}

func TestHandleInbound_PongUpdatesLiveness(t *testing.T) {
	h := NewHub(nil)
	c := &Client{hub: h, send: make(chan []byte, 4), regions: map[string]bool{}}
	before := c.lastPong

	c.handleInbound([]byte(`{"type":"PONG"}`))

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.True(t, c.lastPong.After(before))
}

func TestHandleInbound_TradeRebroadcastWithIdentity(t *testing.T) {
	h := NewHub(nil)
	sender := &Client{hub: h, userID: "trader-7", send: make(chan []byte, 4), regions: map[string]bool{}}
	receiver := &Client{hub: h, userID: "u-2", send: make(chan []byte, 4), regions: map[string]bool{}}
	h.clients[sender] = true
	h.clients[receiver] = true

	sender.handleInbound([]byte(`{"type":"TRADE","region":"NSW1","side":"LONG","quantity":10}`))

	select {
	case raw := <-receiver.send:
		var trade map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &trade))
		assert.Equal(t, "TRADE", trade["type"])
		assert.Equal(t, "trader-7", trade["userId"])
		assert.Equal(t, "NSW1", trade["region"])
		_, err := time.Parse(time.RFC3339, trade["timestamp"].(string))
		assert.NoError(t, err)
	default:
		t.Fatal("expected rebroadcast trade frame")
	}
}

func TestHandleInbound_UnknownTypeGetsError(t *testing.T) {
	h := NewHub(nil)
	c := &Client{hub: h, send: make(chan []byte, 4), regions: map[string]bool{}}

	c.handleInbound([]byte(`{"type":"WIBBLE"}`))

	select {
	case raw := <-c.send:
		var frame map[string]string
		require.NoError(t, json.Unmarshal(raw, &frame))
		assert.Equal(t, FrameError, frame["type"])
		assert.Contains(t, frame["message"], "WIBBLE")
	default:
		t.Fatal("expected error frame")
	}
}

func TestRemoveClient_LaterSendsDoNotPanic(t *testing.T) {
	h := NewHub(nil)
	c := &Client{hub: h, send: make(chan []byte, 4), done: make(chan struct{}), regions: map[string]bool{}}
	h.clients[c] = true

	h.removeClient(c)
	// Second removal is a no-op rather than a double close.
	h.removeClient(c)

	select {
	case <-c.done:
	default:
		t.Fatal("expected done channel to be closed")
	}

	// An inbound frame racing the removal still writes an error frame to the
	// send channel; the channel stays open so this must not panic.
	require.NotPanics(t, func() {
		c.handleInbound([]byte(`{"type":"WIBBLE"}`))
	})
	require.NotPanics(t, func() {
		h.Broadcast([]model.DispatchPrice{testPrice("NSW1", 101)})
	})
	assert.Equal(t, 0, h.ClientCount())
}

func TestHandleBroadcast_Endpoint(t *testing.T) {
	h := NewHub(nil)

	body, _ := json.Marshal([]model.DispatchPrice{testPrice("SA1", 88.8)})
	req := httptest.NewRequest(http.MethodPost, "/broadcast", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	h.HandleBroadcast(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, 1.0, resp["regions"])
	assert.Equal(t, 88.8, h.Snapshot()["SA1"].RRP)
}

func TestHandleBroadcast_RejectsGet(t *testing.T) {
	h := NewHub(nil)
	rec := httptest.NewRecorder()
	h.HandleBroadcast(rec, httptest.NewRequest(http.MethodGet, "/broadcast", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSnapshotStore_RoundTripAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub.db")

	store, err := OpenSnapshotStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save([]model.DispatchPrice{testPrice("NSW1", 120.5)}))
	// Second save for the same region upserts rather than duplicating.
	require.NoError(t, store.Save([]model.DispatchPrice{testPrice("NSW1", 130.0)}))
	require.NoError(t, store.Close())

	reopened, err := OpenSnapshotStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	h := NewHub(reopened)
	snap := h.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 130.0, snap["NSW1"].RRP)
}
