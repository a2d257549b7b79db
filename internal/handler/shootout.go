package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kabaddi-live/scoring-service/internal/service"
	"github.com/kabaddi-live/scoring-service/pkg/response"
)

type ShootoutHandler struct {
	svc service.ShootoutService
}

func NewShootoutHandler(svc service.ShootoutService) *ShootoutHandler {
	return &ShootoutHandler{svc: svc}
}

func (h *ShootoutHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/matches/:id/shootout")
	g.POST("", h.begin)
	g.GET("", h.state)
	g.POST("/players", h.togglePlayer)
	g.POST("/raiders", h.toggleRaider)
	g.POST("/next", h.advance)
	g.POST("/toss", h.toss)
	g.POST("/choice", h.choose)
	g.POST("/raids", h.record)
}

func (h *ShootoutHandler) begin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Begin(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *ShootoutHandler) state(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	st, err := h.svc.State(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, st)
}

type togglePlayerRequest struct {
	PlayerID int64 `json:"player_id"`
}

func (h *ShootoutHandler) togglePlayer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req togglePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.TogglePlayer(c.Request.Context(), id, req.PlayerID); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ShootoutHandler) toggleRaider(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req togglePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.ToggleRaider(c.Request.Context(), id, req.PlayerID); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ShootoutHandler) advance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	step, err := h.svc.Advance(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"step": step})
}

func (h *ShootoutHandler) toss(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	winner, err := h.svc.Toss(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"toss_winner_id": winner})
}

type choiceRequest struct {
	RaidFirst bool `json:"raid_first"`
}

func (h *ShootoutHandler) choose(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req choiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	setup, err := h.svc.Choose(c.Request.Context(), id, req.RaidFirst)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, setup)
}

type recordRaidRequest struct {
	Points int `json:"points"`
}

func (h *ShootoutHandler) record(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req recordRaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.RecordRaid(c.Request.Context(), id, req.Points); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
