package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-staff-registry/internal/core/department"
)

// DepartmentHandler は /departments 配下の HTTP ハンドラです。
type DepartmentHandler struct {
	svc department.UseCase
}

// NewDepartmentHandler は DepartmentHandler を生成します。
func NewDepartmentHandler(svc department.UseCase) *DepartmentHandler {
	return &DepartmentHandler{svc: svc}
}

// Register はルーティングを登録します。
func (h *DepartmentHandler) Register(r gin.IRouter) {
	g := r.Group("/departments")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/by-name/:name", h.getByName)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type departmentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	HeadStaffID *int64  `json:"headStaffId"`

	// 更新時に部署長を解除する
	ClearHeadStaff bool `json:"clearHeadStaff"`
}

type departmentResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	HeadStaffID *int64 `json:"headStaffId"`
}

func toDepartmentResponse(d *department.Department) departmentResponse {
	return departmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Location:    d.Location,
		HeadStaffID: d.HeadStaffID,
	}
}

func toDepartmentResponses(list []*department.Department) []departmentResponse {
	out := make([]departmentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDepartmentResponse(d))
	}
	return out
}

func (h *DepartmentHandler) list(c *gin.Context) {
	var (
		found []*department.Department
		err   error
	)
	if location, ok := c.GetQuery("location"); ok {
		found, err = h.svc.ListDepartmentsByLocation(c.Request.Context(), location)
	} else {
		found, err = h.svc.ListDepartments(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "department list", toDepartmentResponses(found))
}

func (h *DepartmentHandler) get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	found, err := h.svc.GetDepartment(c.Request.Context(), department.GetDepartmentInput{ID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "department detail", toDepartmentResponse(found))
}

func (h *DepartmentHandler) getByName(c *gin.Context) {
	found, err := h.svc.GetDepartmentByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "department detail", toDepartmentResponse(found))
}

func (h *DepartmentHandler) create(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return
	}

	created, err := h.svc.CreateDepartment(c.Request.Context(), department.CreateDepartmentInput{
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Location:    deref(req.Location),
		HeadStaffID: req.HeadStaffID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "department created", toDepartmentResponse(created))
}

func (h *DepartmentHandler) update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return
	}

	updated, err := h.svc.UpdateDepartment(c.Request.Context(), department.UpdateDepartmentInput{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		Location:       req.Location,
		HeadStaffID:    req.HeadStaffID,
		ClearHeadStaff: req.ClearHeadStaff,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "department updated", toDepartmentResponse(updated))
}

func (h *DepartmentHandler) delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.DeleteDepartment(c.Request.Context(), department.DeleteDepartmentInput{ID: id}); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "department deleted", nil)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
