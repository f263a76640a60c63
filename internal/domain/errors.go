package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrWrongMode        = errors.New("room does not accept another player")
	ErrInvalidMode      = errors.New("invalid room mode")
	ErrRoomStarted      = errors.New("room has already started")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrEmptyWord        = errors.New("word cannot be empty")
	ErrWordUsed         = errors.New("word was already used in a previous round")
	ErrAlreadySubmitted = errors.New("already submitted this round")
	ErrRoundOver        = errors.New("round already resolved")
	ErrInvalidStatus    = errors.New("invalid action for current status")
)
