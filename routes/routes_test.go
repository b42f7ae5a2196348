package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lefri/database/repository"
	"lefri/handlers"
	"lefri/models"
	"lefri/services/consultation"
	"lefri/services/emergency"
	ai "lefri/services/intelligence"
	"lefri/services/process"
	"lefri/services/user"
	"lefri/services/voice"

	"github.com/gin-gonic/gin"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repos := repository.NewMemory()
	assistant := ai.NewLegalAssistant(nil)
	store, err := voice.NewStore(t.TempDir(), 1<<10)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	hb := handlers.NewHandlerBundle(handlers.Services{
		Users: &user.DefaultUserService{Repo: repos.Users, AllowLegacy: true},
		Consultations: &consultation.DefaultConsultationService{
			Repo:      repos.Consultations,
			Assistant: assistant,
		},
		Emergency: &emergency.DefaultEmergencyService{
			Users: repos.Users, Contacts: repos.Contacts, Alerts: repos.Alerts, Assistant: assistant,
		},
		Processes: &process.DefaultProcessService{
			Repo: repos.Processes, Users: repos.Users, Assistant: assistant, Coordinator: ai.NewCoordinator(nil, nil),
		},
		Voice:         store,
		VoiceMaxBytes: 1 << 10,
	})
	r := gin.New()
	RegisterRoutes(r, hb)
	return r
}

func call(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signIn(t *testing.T, r http.Handler, email string) models.AuthResponse {
	t.Helper()
	w := call(r, http.MethodPost, "/api/auth/google", "", gin.H{"email": email, "name": "Ana", "googleId": "g-" + email})
	if w.Code != http.StatusOK {
		t.Fatalf("sign in: %d %s", w.Code, w.Body.String())
	}
	var resp models.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestProcessRoutesRequireAuth(t *testing.T) {
	r := newRouter(t)
	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/processes"},
		{http.MethodPost, "/api/processes"},
		{http.MethodGet, "/api/processes/p1"},
		{http.MethodPut, "/api/processes/p1"},
		{http.MethodPatch, "/api/processes/p1"},
		{http.MethodDelete, "/api/processes/p1"},
		{http.MethodPatch, "/api/processes/p1/steps/s1"},
		{http.MethodPost, "/api/processes/p1/generate-document"},
		{http.MethodPost, "/api/processes/p1/step-content"},
		{http.MethodPost, "/api/processes/p1/chat"},
		{http.MethodGet, "/api/process-templates"},
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/ask"},
		{http.MethodGet, "/api/emergency-contacts"},
		{http.MethodPost, "/api/emergency"},
		{http.MethodPost, "/api/voice/upload"},
	}
	for _, p := range paths {
		w := call(r, p.method, p.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", p.method, p.path, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
			t.Errorf("%s %s: body = %s", p.method, p.path, w.Body.String())
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	r := newRouter(t)
	ana := signIn(t, r, "ana@example.com")
	luis := signIn(t, r, "luis@example.com")

	w := call(r, http.MethodGet, "/api/auth/me", ana.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: %d %s", w.Code, w.Body.String())
	}

	if w := call(r, http.MethodPut, "/api/profile", ana.Token, gin.H{}); w.Code != http.StatusBadRequest {
		t.Errorf("empty profile update: status = %d", w.Code)
	}
	if w := call(r, http.MethodPut, "/api/profile", ana.Token, gin.H{"language": "fr", "country": "co"}); w.Code != http.StatusOK {
		t.Errorf("profile update: %d %s", w.Code, w.Body.String())
	}

	w = call(r, http.MethodPost, "/api/processes", ana.Token, gin.H{"type": "divorcio", "title": "Mi divorcio"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create process: %d %s", w.Code, w.Body.String())
	}
	var p models.LegalProcess
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if p.Progress != 0 || p.Status != models.ProcessPending {
		t.Errorf("new process: progress = %d status = %q", p.Progress, p.Status)
	}
	if w := call(r, http.MethodGet, "/api/processes/"+p.ID, luis.Token, nil); w.Code != http.StatusNotFound {
		t.Errorf("other user's process: status = %d", w.Code)
	}
	if w := call(r, http.MethodPost, "/api/processes/"+p.ID+"/chat", ana.Token, gin.H{"query": "¿Qué sigue?"}); w.Code != http.StatusOK {
		t.Errorf("chat: %d %s", w.Code, w.Body.String())
	}
	if w := call(r, http.MethodGet, "/api/process-templates", ana.Token, nil); w.Code != http.StatusOK {
		t.Errorf("templates: status = %d", w.Code)
	}

	if w := call(r, http.MethodPost, "/api/auth/logout", ana.Token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: %d %s", w.Code, w.Body.String())
	}
	if w := call(r, http.MethodGet, "/api/processes", ana.Token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("revoked token accepted: status = %d", w.Code)
	}
	if w := call(r, http.MethodGet, "/api/processes", luis.Token, nil); w.Code != http.StatusOK {
		t.Errorf("other session affected by logout: status = %d", w.Code)
	}
}

func TestPublicRoutes(t *testing.T) {
	r := newRouter(t)
	if w := call(r, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("health: status = %d", w.Code)
	}
	if w := call(r, http.MethodGet, "/api/auth/google/url", "", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("oauth url without config: status = %d", w.Code)
	}
	if w := call(r, http.MethodPost, "/api/auth/google", "", gin.H{}); w.Code != http.StatusBadRequest {
		t.Errorf("empty sign in: status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/processes", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Errorf("preflight missing CORS headers: %v", w.Header())
	}
}
