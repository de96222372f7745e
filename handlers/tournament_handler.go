package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jverdu-r/42-transcendence-sub000/services"
)

type TournamentHandler struct {
	progressionService services.ProgressionService
	tournamentService  services.TournamentService
}

func NewTournamentHandler(ps services.ProgressionService, ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		progressionService: ps,
		tournamentService:  ts,
	}
}

// AdvanceHandler handles POST /tournaments/{tournamentID}/advance. Safe to
// call repeatedly: every outcome short of an error is a legitimate state of
// the bracket, reported with 200.
func (h *TournamentHandler) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := strconv.Atoi(chi.URLParam(r, "tournamentID"))
	if err != nil || tournamentID <= 0 {
		notFoundResponse(w, r)
		return
	}

	result, err := h.progressionService.AdvanceTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListActiveHandler handles GET /tournaments, returning the tournaments
// whose bracket is still progressing.
func (h *TournamentHandler) ListActiveHandler(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListActive(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBracketHandler handles GET /tournaments/{tournamentID}/bracket.
func (h *TournamentHandler) GetBracketHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := strconv.Atoi(chi.URLParam(r, "tournamentID"))
	if err != nil || tournamentID <= 0 {
		notFoundResponse(w, r)
		return
	}

	bracket, err := h.tournamentService.GetBracket(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
