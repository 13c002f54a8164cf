package attendance

import "errors"

var (
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrPhotoNotFound    = errors.New("attendance photo not found")
	ErrNoPhoto          = errors.New("attendance has no photo")
)
