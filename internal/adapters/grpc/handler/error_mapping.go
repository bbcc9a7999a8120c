package handler

import (
	"errors"

	"github.com/ogurasousui/codex-staff-registry/internal/core/staff"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, staff.ErrInvalidID),
		errors.Is(err, staff.ErrInvalidUsername),
		errors.Is(err, staff.ErrInvalidEmail),
		errors.Is(err, staff.ErrInvalidPassword),
		errors.Is(err, staff.ErrInvalidSearchCondition),
		errors.Is(err, staff.ErrUnsupportedPhotoType),
		errors.Is(err, staff.ErrPhotoTooLarge):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, staff.ErrStaffNotFound), errors.Is(err, staff.ErrPhotoNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, staff.ErrStaffAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, staff.ErrPhotoStorageUnavailable):
		return status.Error(codes.Unimplemented, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
