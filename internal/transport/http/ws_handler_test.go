package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"assessment-service/internal/domain"
)

func TestWebSocketProgressFlow(t *testing.T) {
	svc := newTestService()
	wsHandler := NewWSHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	session := svc.StartSession()
	if err := svc.Begin(session.ID()); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := svc.SetEvaluator(context.Background(), session.ID(), domain.EvaluatorInfo{Name: "Alice"}); err != nil {
		t.Fatalf("set evaluator: %v", err)
	}

	u := "ws" + server.URL[len("http"):] + "/ws?sessionId=" + session.ID()
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the initial progress snapshot first.
	_, payload := readNext(conn, t, "progress")
	if payload["step"] != "assessment" {
		t.Fatalf("expected assessment step in snapshot, got %v", payload["step"])
	}

	// Send an answer over the socket.
	answer := map[string]any{
		"type": "answer",
		"payload": map[string]any{
			"domainId": "Governance",
			"question": "g-q1",
			"score":    4,
		},
	}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	// Expect answerRecorded plus a broadcast progress update.
	recordedSeen := false
	progressSeen := false
	for i := 0; i < 3; i++ {
		typ, p := readNext(conn, t, "")
		switch typ {
		case "answerRecorded":
			recordedSeen = true
			if p["answered"] != float64(1) {
				t.Fatalf("expected one answered, got %v", p["answered"])
			}
		case "progress":
			progressSeen = true
		}
		if recordedSeen && progressSeen {
			break
		}
	}
	if !recordedSeen || !progressSeen {
		t.Fatalf("expected answerRecorded and progress, got answerRecorded=%v progress=%v", recordedSeen, progressSeen)
	}
}

func TestWebSocketRejectsBadAnswer(t *testing.T) {
	svc := newTestService()
	wsHandler := NewWSHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	session := svc.StartSession()
	if err := svc.Begin(session.ID()); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := svc.SetEvaluator(context.Background(), session.ID(), domain.EvaluatorInfo{Name: "Alice"}); err != nil {
		t.Fatalf("set evaluator: %v", err)
	}

	u := "ws" + server.URL[len("http"):] + "/ws?sessionId=" + session.ID()
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readNext(conn, t, "progress")

	bad := map[string]any{
		"type": "answer",
		"payload": map[string]any{
			"domainId": "Governance",
			"question": "g-q1",
			"score":    11,
		},
	}
	if err := conn.WriteJSON(bad); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	typ, payload := readNext(conn, t, "error")
	if typ != "error" || payload["message"] == "" {
		t.Fatalf("expected error message, got %s %v", typ, payload)
	}
}

func TestWebSocketRequiresSessionID(t *testing.T) {
	svc := newTestService()
	wsHandler := NewWSHandler(svc)

	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeWS))
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without sessionId, got %d", resp.StatusCode)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}
