package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rpsgame-go/internal/api"
	"github.com/mcoot/rpsgame-go/internal/api/apierr"
	"github.com/mcoot/rpsgame-go/internal/api/response"
	"github.com/mcoot/rpsgame-go/internal/factory"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/testutil"
)

// testServer wraps the router over a test app with a mock clock and random
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp(t)
	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		SessionService: app.SessionService,
		SetupService:   app.SetupService,
		PlayerService:  app.PlayerService,
		GameController: app.GameController,
		HubManager:     app.HubManager,
		Metrics:        app.Metrics,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) advance(t *testing.T, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ts.app.MockClock.Advance(d).MustWait(ctx)
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[apierr.ErrorResponse](t, rr).Error.Code
}

func openSession(t *testing.T, ts *testServer) string {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/sessions", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	return decodeBody[response.Session](t, rr).SessionToken
}

// setupGame configures a two player game and returns its id
func setupGame(t *testing.T, ts *testServer, token string, rounds int) string {
	t.Helper()

	rr := ts.request(http.MethodPut, "/api/v1/setup/mode", map[string]any{"mode": "two_player", "num_of_games": rounds}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = ts.request(http.MethodPost, "/api/v1/setup/players", map[string]string{"player1": "alice", "player2": "bob"}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	ts.app.MockRandom.QueueString("GAME12345678")
	rr = ts.request(http.MethodPost, "/api/v1/games", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id := decodeBody[response.Game](t, rr).ID

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/start", nil, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return id
}

func choose(ts *testServer, token, id string, slot int, choice string) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, "/api/v1/games/"+id+"/choices", map[string]any{"slot": slot, "choice": choice}, token)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateSessionSetsCookie(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	resp := decodeBody[response.Session](t, rr)
	assert.True(t, strings.HasPrefix(resp.SessionToken, "sess_"))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, resp.SessionToken, cookies[0].Value)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/setup", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games", nil, "bogus")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr))
}

func TestSetupFlow(t *testing.T) {
	ts := newTestServer(t)
	token := openSession(t, ts)

	// Players before a mode is a state error
	rr := ts.request(http.MethodPost, "/api/v1/setup/players", map[string]string{"player1": "alice", "player2": "bob"}, token)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.request(http.MethodPut, "/api/v1/setup/mode", map[string]any{"mode": "two_player", "num_of_games": 3}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/setup/players", map[string]string{"player1": "alice", "player2": "ALICE"}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeValidation, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/setup/players", map[string]string{"player1": "alice", "player2": "bob"}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/avatars", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	avatars := decodeBody[response.Avatars](t, rr).Avatars
	require.NotEmpty(t, avatars)

	rr = ts.request(http.MethodPost, "/api/v1/setup/avatar", map[string]any{"slot": 2, "avatar": avatars[1]}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "BOB", decodeBody[response.Player](t, rr).Name)

	rr = ts.request(http.MethodGet, "/api/v1/setup", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	setup := decodeBody[response.Setup](t, rr)
	assert.Equal(t, "two_player", setup.Mode)
	assert.Equal(t, 3, setup.NumOfGames)
	assert.Equal(t, "ALICE", setup.Player1)

	rr = ts.request(http.MethodGet, "/api/v1/players/bob", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, avatars[1], decodeBody[response.Player](t, rr).Avatar)

	rr = ts.request(http.MethodDelete, "/api/v1/setup", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/players/bob", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateGameWithoutSetup(t *testing.T) {
	ts := newTestServer(t)
	token := openSession(t, ts)

	rr := ts.request(http.MethodPost, "/api/v1/games", nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, apierr.CodeSetupIncomplete, errorCode(t, rr))
}

func TestPlayTwoRoundGame(t *testing.T) {
	ts := newTestServer(t)
	token := openSession(t, ts)
	id := setupGame(t, ts, token, 2)

	rr := choose(ts, token, id, 1, "r")
	require.Equal(t, http.StatusOK, rr.Code)
	game := decodeBody[response.Game](t, rr)
	assert.True(t, game.Players[0].HasChosen)
	assert.False(t, game.Players[1].HasChosen)

	// Same slot twice in one round is rejected
	rr = choose(ts, token, id, 1, "P")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeAlreadyChosen, errorCode(t, rr))

	rr = choose(ts, token, id, 2, "S")
	require.Equal(t, http.StatusOK, rr.Code)
	game = decodeBody[response.Game](t, rr)
	assert.Equal(t, "revealing", game.State)
	assert.Equal(t, 1, game.Players[0].Score)

	// No submissions while the reveal is on screen
	rr = choose(ts, token, id, 1, "R")
	assert.Equal(t, http.StatusConflict, rr.Code)

	ts.advance(t, 3*time.Second)
	ts.advance(t, 5*time.Second)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+id, nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	game = decodeBody[response.Game](t, rr)
	assert.Equal(t, "awaiting_choices", game.State)
	assert.Equal(t, 2, game.CurrentRound)

	rr = choose(ts, token, id, 1, "X")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidChoice, errorCode(t, rr))

	require.Equal(t, http.StatusOK, choose(ts, token, id, 1, "S").Code)
	rr = choose(ts, token, id, 2, "R")
	require.Equal(t, http.StatusOK, rr.Code)

	game = decodeBody[response.Game](t, rr)
	assert.Equal(t, "finished", game.State)
	require.NotNil(t, game.Result)
	assert.True(t, game.Result.Draw)
	assert.Nil(t, game.Result.Winner)
	assert.Equal(t, map[string]int{"ALICE": 1, "BOB": 1}, game.Result.Scores)
}

func TestGamesAreScopedToSession(t *testing.T) {
	ts := newTestServer(t)

	ts.app.MockRandom.QueueBytes(bytes.Repeat([]byte{1}, 16), bytes.Repeat([]byte{2}, 16))
	owner := openSession(t, ts)
	other := openSession(t, ts)
	require.NotEqual(t, owner, other)

	id := setupGame(t, ts, owner, 1)

	rr := ts.request(http.MethodGet, "/api/v1/games/"+id, nil, other)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeGameNotFound, errorCode(t, rr))
}

func TestSecondGameRejectedWhileFirstRuns(t *testing.T) {
	ts := newTestServer(t)
	token := openSession(t, ts)
	id := setupGame(t, ts, token, 3)

	rr := ts.request(http.MethodGet, "/api/v1/setup", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, id, decodeBody[response.Setup](t, rr).GameID)

	rr = ts.request(http.MethodPost, "/api/v1/games", nil, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeGameInProgress, errorCode(t, rr))

	rr = ts.request(http.MethodPut, "/api/v1/setup/mode", map[string]any{"mode": "single_player", "num_of_games": 1}, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeGameInProgress, errorCode(t, rr))
}

func TestComputerNameIsReserved(t *testing.T) {
	ts := newTestServer(t)
	token := openSession(t, ts)

	rr := ts.request(http.MethodPut, "/api/v1/setup/mode", map[string]any{"mode": "two_player", "num_of_games": 1}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/setup/players", map[string]string{"player1": "alice", "player2": "computer"}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeValidation, errorCode(t, rr))
}

func TestAbandonGame(t *testing.T) {
	ts := newTestServer(t)
	token := openSession(t, ts)
	id := setupGame(t, ts, token, 3)

	rr := ts.request(http.MethodDelete, "/api/v1/games/"+id, nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+id, nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEndSession(t *testing.T) {
	ts := newTestServer(t)
	token := openSession(t, ts)

	rr := ts.request(http.MethodDelete, "/api/v1/sessions", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/setup", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.request(http.MethodGet, "/api/v1/health", nil, "")

	rr := ts.request(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `rps_http_requests_total{method="GET",route="/api/v1/health",status="200"} 1`)
	assert.Contains(t, rr.Body.String(), "rps_active_sessions 0")
}

func TestWebSocketPlay(t *testing.T) {
	ts := newTestServer(t)
	token := openSession(t, ts)
	id := setupGame(t, ts, token, 1)

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/games/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		hub := ts.app.HubManager.GetHub(model.GameID(id))
		return hub != nil && hub.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteJSON(map[string]any{"slot": 1, "choice": "P"}))
	require.NoError(t, conn.WriteJSON(map[string]any{"slot": 2, "choice": "R"}))

	var types []string
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for len(types) < 4 {
		var frame struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, conn.ReadJSON(&frame))
		types = append(types, frame.Type)

		if frame.Type == "game_finished" {
			assert.JSONEq(t, `{"winner":"ALICE","draw":false,"scores":{"ALICE":1,"BOB":0}}`, string(frame.Payload))
		}
	}

	assert.Equal(t, []string{"choice_recorded", "choice_recorded", "round_resolved", "game_finished"}, types)
}
