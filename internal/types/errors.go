package types

import "errors"

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrRoomNotFound   = errors.New("room not found")
	ErrShelfNotFound  = errors.New("shelf not found")
	ErrRowNotFound    = errors.New("row not found")
	ErrUploadNotFound = errors.New("upload not found")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrJobFailed      = errors.New("upload job failed")
)
