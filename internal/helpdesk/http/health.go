package http

import (
	"net/http"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/metrics"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store"
	"github.com/burenvoorburen/helpdesk/pkg/helpdesksdk"
	"github.com/burenvoorburen/helpdesk/pkg/httpx"
	"github.com/burenvoorburen/helpdesk/pkg/jwtx"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always returns 200 OK while the process is serving
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	helpdesksdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, helpdesksdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Reports the database and session signer status
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	helpdesksdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	helpdesksdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &helpdesksdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		status := "ok"
		code := http.StatusOK

		dbErr := st.Ping(r.Context())
		metrics.SetDependencyHealth("database", dbErr == nil)
		if dbErr != nil {
			checks.Database = "error: " + dbErr.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, helpdesksdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
