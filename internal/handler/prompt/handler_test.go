package prompt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/navigator/backend/internal/model/chat"
	"github.com/zhouzirui/navigator/backend/internal/model/prompt"
	chatservice "github.com/zhouzirui/navigator/backend/internal/service/chat"
)

type echoResponder struct{}

func (echoResponder) Reply(_ context.Context, _ string, _ []chat.Message, input string) (chat.Reply, error) {
	return chat.Reply{Text: input}, nil
}

func setupRouter(t *testing.T) (*chi.Mux, *chatservice.Service) {
	t.Helper()
	chatSvc := chatservice.NewService(echoResponder{}, time.Hour)
	t.Cleanup(chatSvc.Close)

	r := chi.NewRouter()
	New(prompt.NewMemoryStore(prompt.Seed()), chatSvc).RegisterRoutes(r)
	return r, chatSvc
}

func TestListPrompts(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/prompts", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var prompts []prompt.SamplePrompt
	if err := json.Unmarshal(resp.Body.Bytes(), &prompts); err != nil {
		t.Fatalf("decode prompts: %v", err)
	}
	if len(prompts) != 3 {
		t.Fatalf("expected 3 prompts, got %d", len(prompts))
	}
}

func TestSubmitPromptSendsAction(t *testing.T) {
	r, chatSvc := setupRouter(t)
	session, err := chatSvc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	item := prompt.Seed()[0]

	req := httptest.NewRequest(http.MethodPost, "/session/"+session.ID+"/prompts/"+item.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}

	state, err := chatSvc.Snapshot(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	last := state.Transcript[len(state.Transcript)-1]
	if last.Role != chat.RoleUser || last.Text != item.Action {
		t.Fatalf("expected user message %q, got %+v", item.Action, last)
	}
	if state.PendingInput != "" {
		t.Fatalf("expected draft cleared after submit, got %q", state.PendingInput)
	}
	if !state.AwaitingResponse {
		t.Fatal("expected awaiting response")
	}
}

func TestSubmitUnknownPrompt(t *testing.T) {
	r, chatSvc := setupRouter(t)
	session, _ := chatSvc.CreateSession(context.Background())

	req := httptest.NewRequest(http.MethodPost, "/session/"+session.ID+"/prompts/nope", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSubmitPromptUnknownSession(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/session/missing/prompts/"+prompt.Seed()[0].ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
