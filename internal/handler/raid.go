package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kabaddi-live/scoring-service/internal/model"
	"github.com/kabaddi-live/scoring-service/internal/service"
	"github.com/kabaddi-live/scoring-service/pkg/response"
)

// RaidHandler exposes the scorer's raid lifecycle over HTTP. The routes map
// one-to-one onto the state machine transitions.
type RaidHandler struct {
	svc service.MatchService
}

func NewRaidHandler(svc service.MatchService) *RaidHandler { return &RaidHandler{svc: svc} }

func (h *RaidHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/matches/:id")
	g.POST("/raids", h.start)
	g.DELETE("/raids/current", h.cancel)
	g.POST("/raids/current/outcome", h.resolve)
	g.POST("/raids/current/confirm", h.confirm)
	g.POST("/technical", h.technical)
	g.POST("/timeout", h.timeout)
	g.POST("/undo", h.undo)
	g.POST("/redo", h.redo)
}

type startRaidRequest struct {
	RaiderID int64 `json:"raider_id"`
}

func (h *RaidHandler) start(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req startRaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	ev, err := h.svc.StartRaid(c.Request.Context(), id, req.RaiderID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, ev)
}

func (h *RaidHandler) cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.CancelRaid(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type outcomeRequest struct {
	Outcome      model.RaidOutcome `json:"outcome"`
	TouchPoints  int               `json:"touch_points"`
	BonusPoint   bool              `json:"bonus_point"`
	DefendersOut []int64           `json:"defenders_out"`
	TacklerID    int64             `json:"tackler_id"`
}

func (h *RaidHandler) resolve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req outcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	res, err := h.svc.ResolveRaid(c.Request.Context(), id, model.RaidAction{
		Outcome:      req.Outcome,
		TouchPoints:  req.TouchPoints,
		BonusPoint:   req.BonusPoint,
		DefendersOut: req.DefendersOut,
		TacklerID:    req.TacklerID,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *RaidHandler) confirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ev, err := h.svc.ConfirmRaid(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, ev)
}

type technicalRequest struct {
	TeamID int64 `json:"team_id"`
	Points int   `json:"points"`
}

func (h *RaidHandler) technical(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req technicalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	ev, err := h.svc.TechnicalPoint(c.Request.Context(), id, req.TeamID, req.Points)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, ev)
}

type timeoutRequest struct {
	TeamID int64 `json:"team_id"`
}

func (h *RaidHandler) timeout(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req timeoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	ev, err := h.svc.Timeout(c.Request.Context(), id, req.TeamID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, ev)
}

func (h *RaidHandler) undo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Undo(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RaidHandler) redo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Redo(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
