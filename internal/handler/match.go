package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kabaddi-live/scoring-service/internal/repository"
	"github.com/kabaddi-live/scoring-service/internal/service"
	"github.com/kabaddi-live/scoring-service/pkg/response"
)

type MatchHandler struct {
	svc service.MatchService
}

func NewMatchHandler(svc service.MatchService) *MatchHandler { return &MatchHandler{svc: svc} }

func (h *MatchHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/matches")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	// Reconstruction-backed reads: both recompute from the full event log.
	g.GET("/:id/snapshot", h.snapshot)
	g.GET("/:id/timeline", h.timeline)
}

func (h *MatchHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	res, err := h.svc.ListMatches(c.Request.Context(), repository.Page{Limit: limit, Offset: offset})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"items": res.Items, "total": res.Total})
}

func (h *MatchHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := h.svc.GetMatch(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) snapshot(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	snap, err := h.svc.Snapshot(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, snap)
}

func (h *MatchHandler) timeline(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	entries, err := h.svc.Timeline(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, entries)
}

// pathID parses the :id path param, writing the error response itself so
// callers can bail with a single check.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer > 0"}}))
		return 0, false
	}
	return id, true
}
