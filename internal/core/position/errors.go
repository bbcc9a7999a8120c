package position

import "errors"

var (
	// ErrPositionNotFound は職位が存在しない場合に返却されます。
	ErrPositionNotFound = errors.New("position not found")
	// ErrPositionAlreadyExists は domain と title の組が重複した場合に返却されます。
	ErrPositionAlreadyExists = errors.New("position already exists")
	// ErrInvalidDomain は domain が不正な場合に返却されます。
	ErrInvalidDomain = errors.New("invalid domain")
	// ErrInvalidTitle は title が不正な場合に返却されます。
	ErrInvalidTitle = errors.New("invalid title")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("invalid id")
)
