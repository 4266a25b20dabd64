package controller

import (
	"net/http"

	"github.com/gorilla/mux"

	"Sator.eden/internal/service"
	"Sator.eden/internal/utils"
)

// TelemetryController serves channel readings and the archive.
type TelemetryController struct {
	telemetry *service.TelemetryService
	archive   *service.ArchiveService
}

// NewTelemetryController creates a new TelemetryController.
func NewTelemetryController(telemetry *service.TelemetryService, archive *service.ArchiveService) *TelemetryController {
	return &TelemetryController{
		telemetry: telemetry,
		archive:   archive,
	}
}

func (c *TelemetryController) HandleTop(w http.ResponseWriter, r *http.Request) {
	res, err := c.telemetry.Top(r.Context())
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

func (c *TelemetryController) HandleBottom(w http.ResponseWriter, r *http.Request) {
	res, err := c.telemetry.Bottom(r.Context())
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// HandleArchive answers GET /api/archive/{channel}?start=-24h&window=1h.
func (c *TelemetryController) HandleArchive(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	res, err := c.archive.Readings(r.Context(), mux.Vars(r)["channel"], query.Get("start"), query.Get("window"))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}
