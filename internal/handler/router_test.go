package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/navigator/backend/internal/analysis/intent"
	"github.com/zhouzirui/navigator/backend/internal/config"
	chatModel "github.com/zhouzirui/navigator/backend/internal/model/chat"
	"github.com/zhouzirui/navigator/backend/internal/model/prompt"
	"github.com/zhouzirui/navigator/backend/internal/service/assistant"
	chatService "github.com/zhouzirui/navigator/backend/internal/service/chat"
)

func newTestRouter(t *testing.T) (http.Handler, *chatService.Service) {
	t.Helper()
	assistantSvc, err := assistant.NewService(t.Context(), intent.Respond, 10)
	if err != nil {
		t.Fatalf("assistant service: %v", err)
	}
	chatSvc := chatService.NewService(assistantSvc, 0)
	t.Cleanup(chatSvc.Close)

	cfg := config.ServerConfig{AllowedOrigin: "http://localhost:3000", HeartbeatInterval: time.Minute}
	return NewRouter(cfg, prompt.NewMemoryStore(prompt.Seed()), chatSvc, zap.NewNop()), chatSvc
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/session", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestAssessmentConversation(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var session chatModel.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"text": "Quick Start please"})
	req = httptest.NewRequest(http.MethodPost, "/api/session/"+session.ID+"/messages", bytes.NewReader(body))
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}

	var state chatModel.State
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		req = httptest.NewRequest(http.MethodGet, "/api/session/"+session.ID, nil)
		resp = httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		state = chatModel.State{}
		if err := json.Unmarshal(resp.Body.Bytes(), &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if !state.AwaitingResponse {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if len(state.Transcript) != 3 {
		t.Fatalf("expected welcome, user and assistant messages, got %d", len(state.Transcript))
	}
	reply := state.Transcript[2]
	if reply.Role != chatModel.RoleAssistant || len(reply.Descriptors) != 1 || reply.Descriptors[0].Type != "assessment" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if !state.Canvas.Open {
		t.Fatal("expected canvas to open for the assessment")
	}
}
