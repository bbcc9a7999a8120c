package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-staff-registry/internal/core/position"
)

// PositionHandler は /positions 配下の HTTP ハンドラです。
type PositionHandler struct {
	svc position.UseCase
}

// NewPositionHandler は PositionHandler を生成します。
func NewPositionHandler(svc position.UseCase) *PositionHandler {
	return &PositionHandler{svc: svc}
}

// Register はルーティングを登録します。
func (h *PositionHandler) Register(r gin.IRouter) {
	g := r.Group("/positions")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/lookup", h.lookup)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type positionRequest struct {
	Domain      *string `json:"domain"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type positionResponse struct {
	ID          int64  `json:"id"`
	Domain      string `json:"domain"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func toPositionResponse(p *position.Position) positionResponse {
	return positionResponse{ID: p.ID, Domain: p.Domain, Title: p.Title, Description: p.Description}
}

func (h *PositionHandler) list(c *gin.Context) {
	var (
		found []*position.Position
		err   error
	)
	if domain, ok := c.GetQuery("domain"); ok {
		found, err = h.svc.ListPositionsByDomain(c.Request.Context(), domain)
	} else {
		found, err = h.svc.ListPositions(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]positionResponse, 0, len(found))
	for _, p := range found {
		out = append(out, toPositionResponse(p))
	}
	respondOK(c, http.StatusOK, "position list", out)
}

func (h *PositionHandler) lookup(c *gin.Context) {
	found, err := h.svc.FindPosition(c.Request.Context(), position.FindPositionInput{
		Domain: c.Query("domain"),
		Title:  c.Query("title"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "position detail", toPositionResponse(found))
}

func (h *PositionHandler) get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	found, err := h.svc.GetPosition(c.Request.Context(), position.GetPositionInput{ID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "position detail", toPositionResponse(found))
}

func (h *PositionHandler) create(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return
	}

	created, err := h.svc.CreatePosition(c.Request.Context(), position.CreatePositionInput{
		Domain:      deref(req.Domain),
		Title:       deref(req.Title),
		Description: deref(req.Description),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "position created", toPositionResponse(created))
}

func (h *PositionHandler) update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return
	}

	updated, err := h.svc.UpdatePosition(c.Request.Context(), position.UpdatePositionInput{
		ID:          id,
		Domain:      req.Domain,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "position updated", toPositionResponse(updated))
}

func (h *PositionHandler) delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.DeletePosition(c.Request.Context(), position.DeletePositionInput{ID: id}); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "position deleted", nil)
}
