package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kabaddi-live/scoring-service/internal/service"
)

// APIV1Prefix is the base path for the public API. Handlers and tests share
// it so routes never drift.
const APIV1Prefix = "/api/v1"

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, repo Pinger, teamSvc service.TeamService, matchSvc service.MatchService, shootoutSvc service.ShootoutService) {
	h := NewHealthHandler(repo)

	// Probes at the root for orchestrators, mirrored under the API prefix.
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewTeamHandler(teamSvc).Register(api)
		NewMatchHandler(matchSvc).Register(api)
		NewRaidHandler(matchSvc).Register(api)
		NewShootoutHandler(shootoutSvc).Register(api)
	}
}
