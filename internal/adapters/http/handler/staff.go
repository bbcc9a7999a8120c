package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-staff-registry/internal/core/staff"
)

const (
	staffFormField    = "staff"
	// staff パートはファイル (JSON Blob) として送られることがあるため上限を設けて読む。
	maxStaffPartBytes = 1 << 20
)

// photoFormFields は写真パートとして受け付けるフィールド名です。先頭から順に探します。
var photoFormFields = []string{"file", "profileImageFile"}

// StaffHandler は /medical-staff 配下の HTTP ハンドラです。
type StaffHandler struct {
	svc staff.UseCase
}

// NewStaffHandler は StaffHandler を生成します。
func NewStaffHandler(svc staff.UseCase) *StaffHandler {
	return &StaffHandler{svc: svc}
}

// Register はルーティングを登録します。
func (h *StaffHandler) Register(r gin.IRouter) {
	g := r.Group("/medical-staff")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/search", h.search)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/deactivate", h.deactivate)
	g.GET("/:id/photo", h.photo)
}

type staffRequest struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	Email          string `json:"email"`
	Status         string `json:"status"`
	DomainRole     string `json:"domainRole"`
	FullName       string `json:"fullName"`
	OfficeLocation string `json:"officeLocation"`
	Bio            string `json:"bio"`
	Phone          string `json:"phone"`
}

type staffResponse struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Status         string `json:"status"`
	DomainRole     string `json:"domainRole,omitempty"`
	FullName       string `json:"fullName,omitempty"`
	OfficeLocation string `json:"officeLocation,omitempty"`
	PhotoKey       string `json:"photoKey,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

func (req staffRequest) toDomain() staff.Staff {
	return staff.Staff{
		ID:             req.ID,
		Username:       req.Username,
		Email:          req.Email,
		Status:         staff.Status(req.Status),
		DomainRole:     req.DomainRole,
		FullName:       req.FullName,
		OfficeLocation: req.OfficeLocation,
		Bio:            req.Bio,
		Phone:          req.Phone,
	}
}

func toStaffResponse(s *staff.Staff) staffResponse {
	return staffResponse{
		ID:             s.ID,
		Username:       s.Username,
		Email:          s.Email,
		Status:         string(s.Status),
		DomainRole:     s.DomainRole,
		FullName:       s.FullName,
		OfficeLocation: s.OfficeLocation,
		PhotoKey:       s.PhotoKey,
		Bio:            s.Bio,
		Phone:          s.Phone,
	}
}

func toStaffResponses(list []*staff.Staff) []staffResponse {
	out := make([]staffResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toStaffResponse(s))
	}
	return out
}

func (h *StaffHandler) list(c *gin.Context) {
	found, err := h.svc.FilterStaff(c.Request.Context(), staff.FilterStaffInput{
		Status:     staff.Status(c.Query("status")),
		DomainRole: c.Query("domainRole"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "staff list", toStaffResponses(found))
}

func (h *StaffHandler) search(c *gin.Context) {
	found, err := h.svc.SearchStaff(c.Request.Context(), staff.SearchStaffInput{
		Condition: c.Query("condition"),
		Value:     c.Query("value"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "staff search", toStaffResponses(found))
}

func (h *StaffHandler) get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	found, err := h.svc.GetStaff(c.Request.Context(), staff.GetStaffInput{ID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "staff detail", toStaffResponse(found))
}

func (h *StaffHandler) create(c *gin.Context) {
	req, photo, closeFn, err := bindStaffRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeFn()

	created, err := h.svc.CreateStaff(c.Request.Context(), staff.CreateStaffInput{
		Staff:    req.toDomain(),
		Password: req.Password,
		Photo:    photo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "staff created", toStaffResponse(created))
}

func (h *StaffHandler) update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	req, photo, closeFn, err := bindStaffRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeFn()

	in := req.toDomain()
	in.ID = id

	updated, err := h.svc.UpdateStaff(c.Request.Context(), staff.UpdateStaffInput{
		Staff:    in,
		Password: req.Password,
		Photo:    photo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "staff updated", toStaffResponse(updated))
}

func (h *StaffHandler) delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.DeleteStaff(c.Request.Context(), staff.DeleteStaffInput{ID: id}); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "staff deleted", nil)
}

func (h *StaffHandler) deactivate(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.svc.DeactivateStaff(c.Request.Context(), staff.DeactivateStaffInput{ID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "staff deactivated", toStaffResponse(updated))
}

func (h *StaffHandler) photo(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	stored, err := h.svc.OpenPhoto(c.Request.Context(), staff.GetStaffInput{ID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	defer stored.Content.Close()

	c.DataFromReader(http.StatusOK, -1, stored.ContentType, stored.Content, map[string]string{
		"X-Content-Type-Options": "nosniff",
	})
}

// bindStaffRequest は JSON もしくは multipart (staff フィールド + file / profileImageFile) の本文を読み取ります。
func bindStaffRequest(c *gin.Context) (staffRequest, *staff.Photo, func(), error) {
	var req staffRequest
	noop := func() {}

	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, nil, noop, fmt.Errorf("%w: %v", errInvalidRequest, err)
		}
		return req, nil, noop, nil
	}

	raw, err := staffFormValue(c)
	if err != nil {
		return req, nil, noop, err
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, nil, noop, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	header, err := photoFormFile(c)
	if err != nil {
		return req, nil, noop, err
	}
	if header == nil {
		return req, nil, noop, nil
	}

	photo, file, err := openPhoto(header)
	if err != nil {
		return req, nil, noop, err
	}
	return req, photo, func() { _ = file.Close() }, nil
}

// staffFormValue は staff フィールドを値パート、なければファイルパートから読み取ります。
func staffFormValue(c *gin.Context) ([]byte, error) {
	if raw := c.PostForm(staffFormField); raw != "" {
		return []byte(raw), nil
	}

	header, err := c.FormFile(staffFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, fmt.Errorf("%w: %s field is required", errInvalidRequest, staffFormField)
		}
		return nil, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s part: %w", staffFormField, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxStaffPartBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s part: %w", staffFormField, err)
	}
	if len(raw) > maxStaffPartBytes {
		return nil, fmt.Errorf("%w: %s part is too large", errInvalidRequest, staffFormField)
	}
	return raw, nil
}

func photoFormFile(c *gin.Context) (*multipart.FileHeader, error) {
	for _, field := range photoFormFields {
		header, err := c.FormFile(field)
		if err == nil {
			return header, nil
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return nil, fmt.Errorf("%w: %v", errInvalidRequest, err)
		}
	}
	return nil, nil
}

func openPhoto(header *multipart.FileHeader) (*staff.Photo, multipart.File, error) {
	file, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open uploaded photo: %w", err)
	}
	return &staff.Photo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}, file, nil
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", errInvalidRequest)
	}
	return id, nil
}
