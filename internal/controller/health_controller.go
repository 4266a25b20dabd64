package controller

import (
	"net/http"

	"Sator.eden/internal/service"
	"Sator.eden/internal/utils"
)

type HealthController struct {
	service *service.HealthService
}

func NewHealthController(service *service.HealthService) *HealthController {
	return &HealthController{service: service}
}

// HandleHealth always answers 200 while the process serves requests; the
// body tells which integrations are usable.
func (c *HealthController) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, c.service.Check(r.Context()))
}
