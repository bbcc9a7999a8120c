package handler

import (
	"context"
	"fmt"
	"math"

	"github.com/ogurasousui/codex-staff-registry/internal/core/staff"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// StaffGrpcHandler は StaffService の gRPC ハンドラです。
// 写真のアップロード・取得は HTTP API のみが扱います。
type StaffGrpcHandler struct {
	svc staff.UseCase
}

// NewStaffGrpcHandler は StaffGrpcHandler を生成します。
func NewStaffGrpcHandler(svc staff.UseCase) *StaffGrpcHandler {
	return &StaffGrpcHandler{svc: svc}
}

var _ StaffServiceServer = (*StaffGrpcHandler)(nil)

// CreateStaff は職員を登録します。
func (h *StaffGrpcHandler) CreateStaff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	rec, err := staffFromStruct(req)
	if err != nil {
		return nil, err
	}

	created, err := h.svc.CreateStaff(ctx, staff.CreateStaffInput{
		Staff:    rec,
		Password: stringField(req, "password"),
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return singleResponse(created)
}

// GetStaff は ID で職員を取得します。
func (h *StaffGrpcHandler) GetStaff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := requiredID(req)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetStaff(ctx, staff.GetStaffInput{ID: id})
	if err != nil {
		return nil, toStatusError(err)
	}
	return singleResponse(found)
}

// ListStaff は職員一覧を返します。status / domainRole を指定すると絞り込みます。
func (h *StaffGrpcHandler) ListStaff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var (
		list []*staff.Staff
		err  error
	)
	st, role := stringField(req, "status"), stringField(req, "domainRole")
	if st == "" && role == "" {
		list, err = h.svc.ListStaff(ctx)
	} else {
		list, err = h.svc.FilterStaff(ctx, staff.FilterStaffInput{Status: staff.Status(st), DomainRole: role})
	}
	if err != nil {
		return nil, toStatusError(err)
	}
	return listResponse(list)
}

// UpdateStaff は職員レコード全体を上書きします。
func (h *StaffGrpcHandler) UpdateStaff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := requiredID(req)
	if err != nil {
		return nil, err
	}
	rec, err := staffFromStruct(req)
	if err != nil {
		return nil, err
	}
	rec.ID = id

	updated, err := h.svc.UpdateStaff(ctx, staff.UpdateStaffInput{
		Staff:    rec,
		Password: stringField(req, "password"),
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return singleResponse(updated)
}

// DeleteStaff は職員を削除します。
func (h *StaffGrpcHandler) DeleteStaff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := requiredID(req)
	if err != nil {
		return nil, err
	}

	if err := h.svc.DeleteStaff(ctx, staff.DeleteStaffInput{ID: id}); err != nil {
		return nil, toStatusError(err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
}

// SearchStaff は condition / value で職員を検索します。
func (h *StaffGrpcHandler) SearchStaff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	list, err := h.svc.SearchStaff(ctx, staff.SearchStaffInput{
		Condition: stringField(req, "condition"),
		Value:     stringField(req, "value"),
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return listResponse(list)
}

func staffFromStruct(req *structpb.Struct) (staff.Staff, error) {
	id, err := optionalID(req)
	if err != nil {
		return staff.Staff{}, err
	}
	return staff.Staff{
		ID:             id,
		Username:       stringField(req, "username"),
		Email:          stringField(req, "email"),
		Status:         staff.Status(stringField(req, "status")),
		DomainRole:     stringField(req, "domainRole"),
		FullName:       stringField(req, "fullName"),
		OfficeLocation: stringField(req, "officeLocation"),
		Bio:            stringField(req, "bio"),
		Phone:          stringField(req, "phone"),
	}, nil
}

func stringField(req *structpb.Struct, key string) string {
	v, ok := req.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

// optionalID は id フィールドを読み取ります。未指定の場合は 0 を返します。
func optionalID(req *structpb.Struct) (int64, error) {
	v, ok := req.GetFields()["id"]
	if !ok {
		return 0, nil
	}
	if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
		return 0, status.Error(codes.InvalidArgument, "id must be a number")
	}
	f := v.GetNumberValue()
	if f < 0 || f != math.Trunc(f) || f >= 1<<63 {
		return 0, status.Error(codes.InvalidArgument, "id must be a non-negative integer")
	}
	return int64(f), nil
}

func requiredID(req *structpb.Struct) (int64, error) {
	id, err := optionalID(req)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, status.Error(codes.InvalidArgument, "id is required")
	}
	return id, nil
}

func staffToMap(s *staff.Staff) map[string]any {
	m := map[string]any{
		"id":       float64(s.ID),
		"username": s.Username,
		"email":    s.Email,
		"status":   string(s.Status),
	}
	optional := map[string]string{
		"domainRole":     s.DomainRole,
		"fullName":       s.FullName,
		"officeLocation": s.OfficeLocation,
		"photoKey":       s.PhotoKey,
		"bio":            s.Bio,
		"phone":          s.Phone,
	}
	for k, v := range optional {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

func singleResponse(s *staff.Staff) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(map[string]any{"staff": staffToMap(s)})
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode staff: %v", err))
	}
	return out, nil
}

func listResponse(list []*staff.Staff) (*structpb.Struct, error) {
	items := make([]any, 0, len(list))
	for _, s := range list {
		items = append(items, staffToMap(s))
	}
	out, err := structpb.NewStruct(map[string]any{"items": items})
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode staff list: %v", err))
	}
	return out, nil
}
