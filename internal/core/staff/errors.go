package staff

import "errors"

var (
	ErrInvalidID               = errors.New("staff: invalid id")
	ErrInvalidUsername         = errors.New("staff: invalid username")
	ErrInvalidEmail            = errors.New("staff: invalid email")
	ErrInvalidPassword         = errors.New("staff: invalid password")
	ErrInvalidSearchCondition  = errors.New("staff: invalid search condition")
	ErrStaffNotFound           = errors.New("staff: not found")
	ErrStaffAlreadyExists      = errors.New("staff: id already exists")
	ErrPhotoNotFound           = errors.New("staff: photo not found")
	ErrPhotoStorageUnavailable = errors.New("staff: photo storage is not configured")
	ErrUnsupportedPhotoType    = errors.New("staff: unsupported photo type")
	ErrPhotoTooLarge           = errors.New("staff: photo too large")
)
