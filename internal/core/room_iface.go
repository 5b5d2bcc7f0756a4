package core

import "github.com/dkeye/Rendezvous/internal/domain"

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID   SessionID `json:"id"`
	Name string    `json:"name"`
}

// RoomInfo is a point-in-time snapshot of one room.
type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"member_count"`
	Members     []MemberDTO   `json:"members,omitempty"`
}
