package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jverdu-r/42-transcendence-sub000/models"
	"github.com/jverdu-r/42-transcendence-sub000/queue"
	"github.com/jverdu-r/42-transcendence-sub000/services"
)

type fakeProgressionService struct {
	result *services.AdvanceResult
	err    error
}

func (f *fakeProgressionService) AdvanceTournament(ctx context.Context, tournamentID int) (*services.AdvanceResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeTournamentService struct {
	bracket *models.Tournament
	active  []*models.Tournament
	err     error
}

func (f *fakeTournamentService) GetBracket(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bracket, nil
}

func (f *fakeTournamentService) ListActive(ctx context.Context) ([]*models.Tournament, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.active, nil
}

func (f *fakeTournamentService) ArchiveBracket(ctx context.Context, tournamentID int) error {
	return f.err
}

func newTournamentRouter(ps services.ProgressionService, ts services.TournamentService) *chi.Mux {
	handler := NewTournamentHandler(ps, ts)
	router := chi.NewRouter()
	router.Post("/tournaments/{tournamentID}/advance", handler.AdvanceHandler)
	router.Get("/tournaments/{tournamentID}/bracket", handler.GetBracketHandler)
	router.Get("/tournaments", handler.ListActiveHandler)
	return router
}

func TestListActiveHandler(t *testing.T) {
	ts := &fakeTournamentService{active: []*models.Tournament{
		{ID: 7, Name: "pong cup", Status: models.TournamentStatusActive},
	}}
	router := newTournamentRouter(&fakeProgressionService{}, ts)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tournaments", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pong cup") {
		t.Fatalf("tournaments missing from body: %s", rec.Body.String())
	}
}

func TestAdvanceHandlerReportsOutcome(t *testing.T) {
	ps := &fakeProgressionService{result: &services.AdvanceResult{
		Outcome:   services.OutcomeNextRoundCreated,
		Round:     "1/2",
		PairCount: 2,
	}}
	router := newTournamentRouter(ps, &fakeTournamentService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tournaments/7/advance", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Result services.AdvanceResult `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Result.Outcome != services.OutcomeNextRoundCreated || body.Result.Round != "1/2" {
		t.Fatalf("unexpected body: %+v", body.Result)
	}
}

func TestAdvanceHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown tournament", services.ErrTournamentNotFound, http.StatusNotFound},
		{"no rounds yet", services.ErrNoRoundsFound, http.StatusNotFound},
		{"queue down", queue.ErrQueueUnavailable, http.StatusServiceUnavailable},
		{"integrity failure", services.ErrNoWinnersFound, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTournamentRouter(&fakeProgressionService{err: tc.err}, &fakeTournamentService{})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tournaments/7/advance", nil))

			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestAdvanceHandlerRejectsBadID(t *testing.T) {
	router := newTournamentRouter(&fakeProgressionService{}, &fakeTournamentService{})

	for _, path := range []string{"/tournaments/abc/advance", "/tournaments/0/advance", "/tournaments/-3/advance"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d, want 404", path, rec.Code)
		}
	}
}

func TestGetBracketHandler(t *testing.T) {
	ts := &fakeTournamentService{bracket: &models.Tournament{ID: 7, Name: "pong cup", Status: models.TournamentStatusActive}}
	router := newTournamentRouter(&fakeProgressionService{}, ts)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tournaments/7/bracket", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pong cup") {
		t.Fatalf("bracket missing from body: %s", rec.Body.String())
	}
}

func TestGetBracketHandlerUnknownTournament(t *testing.T) {
	router := newTournamentRouter(&fakeProgressionService{}, &fakeTournamentService{err: services.ErrTournamentNotFound})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tournaments/7/bracket", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
