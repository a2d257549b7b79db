package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kabaddi-live/scoring-service/internal/repository"
	"github.com/kabaddi-live/scoring-service/internal/service"
	"github.com/kabaddi-live/scoring-service/pkg/response"
)

// TeamHandler serves the read-only team and roster endpoints.
type TeamHandler struct {
	svc service.TeamService
}

func NewTeamHandler(svc service.TeamService) *TeamHandler { return &TeamHandler{svc: svc} }

func (h *TeamHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/teams")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/players", h.roster)
	r.GET("/players/:id", h.player)
}

func (h *TeamHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	res, err := h.svc.ListTeams(c.Request.Context(), repository.Page{Limit: limit, Offset: offset})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"items": res.Items, "total": res.Total})
}

func (h *TeamHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	team, err := h.svc.GetTeam(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, team)
}

func (h *TeamHandler) roster(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	players, err := h.svc.TeamRoster(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, players)
}

func (h *TeamHandler) player(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.svc.GetPlayer(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, p)
}
