package health

import (
	"encoding/json"
	"net/http"

	"github.com/lewisedginton/account_service/pkg/logger"
)

// Response is the JSON body served by the health endpoints.
type Response struct {
	Status  string                 `json:"status"` // "healthy" | "unhealthy"
	Service string                 `json:"service,omitempty"`
	Checks  map[string]CheckStatus `json:"checks,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// CheckStatus is the per-check entry of Response.
type CheckStatus struct {
	Status  string `json:"status"` // "ok" | "error"
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// LivenessHandler returns 200 while the process is alive and 503 when it
// should be restarted.
func (h *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := h.CheckLiveness(r.Context())
		h.writeResponse(w, report, err)
	}
}

// ReadinessHandler returns 200 when the service can take traffic and 503
// otherwise.
func (h *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := h.CheckReadiness(r.Context())
		h.writeResponse(w, report, err)
	}
}

func (h *Checker) writeResponse(w http.ResponseWriter, report *Report, err error) {
	response := Response{
		Service: h.service,
		Checks:  make(map[string]CheckStatus, len(report.Results)),
	}

	code := http.StatusOK
	response.Status = "healthy"
	if !report.Healthy {
		code = http.StatusServiceUnavailable
		response.Status = "unhealthy"
		if err != nil {
			response.Message = err.Error()
		}
	}

	for _, result := range report.Results {
		status := CheckStatus{Status: "ok", Latency: result.Latency.String()}
		if !result.Healthy {
			status.Status = "error"
			status.Error = result.Error
		}
		response.Checks[result.Name] = status
	}

	body, err := json.Marshal(response)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("Failed to encode health response", logger.ErrorField(err))
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
