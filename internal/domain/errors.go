package domain

import "errors"

// Admission errors are reported to the requester.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyInRoom  = errors.New("already in a room")
)

// Relay errors are expected races and are only logged.
var (
	ErrNotInRoom       = errors.New("not in a room")
	ErrNoPeer          = errors.New("no peer in room")
	ErrPeerUnreachable = errors.New("peer unreachable")
)
