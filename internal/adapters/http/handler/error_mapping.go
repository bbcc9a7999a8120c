package handler

import (
	"errors"
	"net/http"

	"github.com/ogurasousui/codex-staff-registry/internal/core/department"
	"github.com/ogurasousui/codex-staff-registry/internal/core/position"
	"github.com/ogurasousui/codex-staff-registry/internal/core/staff"
)

var errInvalidRequest = errors.New("invalid request")

func toHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, staff.ErrInvalidID),
		errors.Is(err, staff.ErrInvalidUsername),
		errors.Is(err, staff.ErrInvalidEmail),
		errors.Is(err, staff.ErrInvalidPassword),
		errors.Is(err, staff.ErrInvalidSearchCondition),
		errors.Is(err, staff.ErrUnsupportedPhotoType),
		errors.Is(err, department.ErrInvalidName),
		errors.Is(err, department.ErrInvalidID),
		errors.Is(err, position.ErrInvalidDomain),
		errors.Is(err, position.ErrInvalidTitle),
		errors.Is(err, position.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, staff.ErrPhotoTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, staff.ErrStaffNotFound),
		errors.Is(err, staff.ErrPhotoNotFound),
		errors.Is(err, department.ErrDepartmentNotFound),
		errors.Is(err, position.ErrPositionNotFound):
		return http.StatusNotFound
	case errors.Is(err, staff.ErrStaffAlreadyExists),
		errors.Is(err, department.ErrNameAlreadyExists),
		errors.Is(err, position.ErrPositionAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, staff.ErrPhotoStorageUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
