package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rpsgame-go/internal/model"
)

func TestRecorderCountsGameEvents(t *testing.T) {
	r := New()
	ctx := context.Background()

	r.Notify(ctx, model.Event{Type: model.EventRoundStarted, Payload: model.RoundStartedPayload{Round: 1}})
	r.Notify(ctx, model.Event{Type: model.EventRoundStarted, Payload: model.RoundStartedPayload{Round: 2}})
	r.Notify(ctx, model.Event{Type: model.EventRoundResolved, Payload: model.RoundResolvedPayload{
		Outcome: model.VerdictTie, Player1Choice: model.ChoiceRock, Player2Choice: model.ChoiceRock,
	}})
	r.Notify(ctx, model.Event{Type: model.EventGameFinished, Payload: model.GameFinishedPayload{Draw: true}})
	r.Notify(ctx, model.Event{Type: model.EventGameAbandoned, Payload: model.GameAbandonedPayload{}})
	r.Notify(ctx, model.Event{Type: model.EventValidationError, Payload: model.ErrorPayload{}})
	r.Notify(ctx, model.Event{Type: model.EventStateError, Payload: model.ErrorPayload{}})
	r.Notify(ctx, model.Event{Type: model.EventStateError, Payload: model.ErrorPayload{}})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.GamesStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RoundsResolved.WithLabelValues("tie")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.ChoicesPlayed.WithLabelValues("R")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.GamesFinished.WithLabelValues("draw")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.GamesFinished.WithLabelValues("abandoned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Rejections.WithLabelValues("validation")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Rejections.WithLabelValues("state")))
}

func TestMiddlewareLabelsByRouteTemplate(t *testing.T) {
	r := New()
	router := mux.NewRouter()
	router.Use(r.Middleware)
	router.HandleFunc("/games/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"A", "B"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(r.HTTPRequests.WithLabelValues("GET", "/games/{id}", "404")))
}

func TestHandlerExposesGauges(t *testing.T) {
	r := New()
	r.RegisterGauge("active_games", "Games held in memory", func() float64 { return 3 })

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "rps_active_games 3"), body)
}
