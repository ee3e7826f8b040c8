package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHistoryStream(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	token := tokenFor(t, "alice")
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/history/stream?access_token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for env.server.historyNotifier.Connections("alice") == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("websocket never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Another user's writes must not reach alice.
	env.do(t, http.MethodPost, "/api/history", tokenFor(t, "bob"), `{"idea":"bob's","result":{"summary":"s","verdict":"BUILD"}}`)
	env.do(t, http.MethodPost, "/api/history", token, `{"idea":"alice's","result":{"summary":"s","verdict":"BUILD"}}`)
	env.do(t, http.MethodDelete, "/api/history", token, "")

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var saved HistoryEvent
	if err := conn.ReadJSON(&saved); err != nil {
		t.Fatalf("read saved: %v", err)
	}
	if saved.Type != historyEventSaved || saved.Item == nil || saved.Item.Idea != "alice's" {
		t.Fatalf("unexpected saved event %+v", saved)
	}
	var cleared HistoryEvent
	if err := conn.ReadJSON(&cleared); err != nil {
		t.Fatalf("read cleared: %v", err)
	}
	if cleared.Type != historyEventCleared || cleared.Deleted != 1 {
		t.Fatalf("unexpected cleared event %+v", cleared)
	}
}

func TestHistoryStreamRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/history/stream", nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %v", resp)
	}
}
