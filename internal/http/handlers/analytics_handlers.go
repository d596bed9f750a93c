package handlers

import (
	"net/http"
	"strconv"
)

// TopProductsHandler godoc
// @Summary Products with the highest stock
// @Tags analytics
// @Produce json
// @Param limit query int false "Number of rows (default 5)"
// @Success 200 {array} repo.ProductStock
// @Failure 500 {object} ErrorResponse
// @Router /api/analytics/top-products [get]
func TopProductsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	rows, err := analyticsRepo.TopProductsByStock(r.Context(), limit)
	if err != nil {
		log.Error("failed to compute top products", "error", err)
		writeError(w, http.StatusInternalServerError, "could not fetch top products")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// AvailabilitySummaryHandler godoc
// @Summary Product counts per availability tier
// @Tags analytics
// @Produce json
// @Success 200 {object} repo.AvailabilitySummary
// @Failure 500 {object} ErrorResponse
// @Router /api/analytics/availability-summary [get]
func AvailabilitySummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := analyticsRepo.GetAvailabilitySummary(r.Context())
	if err != nil {
		log.Error("failed to compute availability summary", "error", err)
		writeError(w, http.StatusInternalServerError, "could not fetch availability summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// DashboardHandler godoc
// @Summary Aggregate inventory numbers
// @Tags analytics
// @Produce json
// @Success 200 {object} repo.Dashboard
// @Failure 500 {object} ErrorResponse
// @Router /api/analytics/dashboard [get]
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	dashboard, err := analyticsRepo.GetDashboard(r.Context())
	if err != nil {
		log.Error("failed to compute dashboard", "error", err)
		writeError(w, http.StatusInternalServerError, "could not fetch dashboard")
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
