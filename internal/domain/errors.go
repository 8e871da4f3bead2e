package domain

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameRequired = errors.New("username is required")
	ErrInvalidStroke    = errors.New("invalid stroke")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
)
