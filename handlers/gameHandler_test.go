package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"onwserver/models"
	"onwserver/oracle"
	"onwserver/store"
	"onwserver/werewolf"
	"onwserver/werewolf/broadcast"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubOracle struct {
	err error
}

func (s *stubOracle) Query(context.Context, string, string) (*oracle.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &oracle.Response{Text: "Nothing suspicious so far."}, nil
}

func (s *stubOracle) QueryStructured(context.Context, string, string, *oracle.Schema) (*oracle.StructuredResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &oracle.StructuredResponse{Fields: map[string]interface{}{}}, nil
}

func newTestRouter(orc werewolf.Oracle) (*gin.Engine, *store.MemoryStore) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	sessions := store.NewMemoryStore(0)
	orchestrator := werewolf.NewOrchestrator(sessions, orc, logger)
	h := New(orchestrator, broadcast.NewHub(logger), nil, nil, logger)

	router := gin.New()
	router.GET("/health", h.Health)
	router.POST("/game/start", h.StartGame)
	router.GET("/game/:id", h.GameStatus)
	router.POST("/game/:id/step", h.ExecuteStep)
	return router, sessions
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, decoded
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(&stubOracle{})
	w, body := doJSON(t, router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestStartGame(t *testing.T) {
	router, sessions := newTestRouter(&stubOracle{})
	w, body := doJSON(t, router, http.MethodPost, "/game/start", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", w.Code, body)
	}

	gameID, _ := body["gameId"].(string)
	if gameID == "" {
		t.Fatal("expected a gameId")
	}
	if body["nextStepDescription"] != "Show game setup" {
		t.Errorf("unexpected first description %v", body["nextStepDescription"])
	}

	stored, err := sessions.Get(context.Background(), gameID)
	if err != nil || stored == nil {
		t.Fatalf("session not stored: %v", err)
	}
	if got := int(body["totalSteps"].(float64)); got != len(stored.Steps) {
		t.Errorf("totalSteps %d does not match stored %d", got, len(stored.Steps))
	}
}

func TestStartGameRejectsBadBody(t *testing.T) {
	router, _ := newTestRouter(&stubOracle{})
	w, _ := doJSON(t, router, http.MethodPost, "/game/start", `{"rounds": "three"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExecuteStepUnknownGame(t *testing.T) {
	router, _ := newTestRouter(&stubOracle{})
	w, body := doJSON(t, router, http.MethodPost, "/game/nope/step", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %v", w.Code, body)
	}
}

func TestExecuteStepHappyPath(t *testing.T) {
	router, _ := newTestRouter(&stubOracle{})
	_, started := doJSON(t, router, http.MethodPost, "/game/start", "")
	gameID := started["gameId"].(string)

	w, body := doJSON(t, router, http.MethodPost, "/game/"+gameID+"/step", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", w.Code, body)
	}

	event, ok := body["event"].(map[string]interface{})
	if !ok || event["type"] != "setup" {
		t.Errorf("expected a setup event, got %v", body["event"])
	}
	if body["completed"] != false {
		t.Errorf("game should not be completed after one step")
	}
	if got := int(body["currentStep"].(float64)); got != 1 {
		t.Errorf("expected currentStep 1, got %d", got)
	}
}

func TestExecuteStepCompletedGame(t *testing.T) {
	router, sessions := newTestRouter(&stubOracle{})
	session := &models.Session{
		State:     &models.GameState{ID: "g1", Phase: models.PhaseEnd},
		Steps:     []models.Step{{Kind: models.StepSetup}},
		StepIndex: 1,
		Completed: true,
	}
	if err := sessions.Set(context.Background(), "g1", session); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	w, _ := doJSON(t, router, http.MethodPost, "/game/g1/step", "")
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestExecuteStepOracleFailure(t *testing.T) {
	router, sessions := newTestRouter(&stubOracle{
		err: errors.New("upstream unavailable"),
	})

	state := &models.GameState{
		ID:    "g1",
		Phase: models.PhaseDay,
		Players: []models.Player{
			{ID: "p1", Name: "Alice", OriginalRole: models.RoleVillager, CurrentRole: models.RoleVillager},
		},
		CurrentRound: 1,
		MaxRounds:    1,
	}
	session := &models.Session{
		State: state,
		Steps: []models.Step{{Kind: models.StepDayDiscussion, Round: 1, PlayerIndex: 0}},
	}
	if err := sessions.Set(context.Background(), "g1", session); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	w, body := doJSON(t, router, http.MethodPost, "/game/g1/step", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %v", w.Code, body)
	}
	if body["retryable"] != true {
		t.Errorf("oracle failures should be flagged retryable, got %v", body)
	}
}

func TestGameStatus(t *testing.T) {
	router, _ := newTestRouter(&stubOracle{})
	_, started := doJSON(t, router, http.MethodPost, "/game/start", "")
	gameID := started["gameId"].(string)

	w, body := doJSON(t, router, http.MethodGet, "/game/"+gameID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["phase"] != "setup" {
		t.Errorf("expected setup phase, got %v", body["phase"])
	}
	if got := int(body["currentStep"].(float64)); got != 0 {
		t.Errorf("expected currentStep 0, got %d", got)
	}
	if body["completed"] != false {
		t.Errorf("fresh game should not be completed")
	}

	w, _ = doJSON(t, router, http.MethodGet, "/game/unknown", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown game, got %d", w.Code)
	}
}
