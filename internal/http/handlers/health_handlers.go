package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/inventory-vision/internal/vision"
)

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler godoc
// @Summary Readiness probe reporting each dependency's state
// @Tags health
// @Produce json
// @Success 200 {object} ReadinessResponse
// @Failure 503 {object} ReadinessResponse
// @Router /readyz [get]
func ReadyHandler(w http.ResponseWriter, r *http.Request) {
	resp := ReadinessResponse{Status: "ready"}

	if visionRuntime != nil {
		status, reason := visionRuntime.Status()
		cs := ComponentStatus{Name: "model", Status: status.String()}
		if status != vision.StatusReady {
			cs.Reason = reason
			resp.Status = "not ready"
		}
		resp.Components = append(resp.Components, cs)
	}

	for _, check := range readinessChecks {
		cs := ComponentStatus{Name: check.Name, Status: "ready"}
		if err := check.Check(r.Context()); err != nil {
			cs.Status = "unavailable"
			cs.Reason = err.Error()
			resp.Status = "not ready"
		}
		resp.Components = append(resp.Components, cs)
	}

	code := http.StatusOK
	if resp.Status != "ready" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}
