package handlers

import (
	"net/http"

	"github.com/Dias09/esports-hub/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// Get godoc
// @Summary Ranked team leaderboard
// @Description Teams ranked by the canonical (points desc, wins desc) order,
// @Description optionally filtered by game category and re-sorted for display.
// @Tags leaderboard
// @Produce json
// @Param category query string false "Game category filter"
// @Param sort query string false "Sort key: rank, name, points, wins" default(rank)
// @Param order query string false "asc or desc" default(asc)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Unknown sort key or order"
// @Router /leaderboard [get]
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	table, err := h.leaderboardService.Table(r.Context(),
		query.Get("category"),
		query.Get("sort"),
		query.Get("order"),
	)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
