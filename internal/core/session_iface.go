package core

import "github.com/dkeye/Rendezvous/internal/domain"

type SessionID string

// MemberSession binds domain.Peer and its transport endpoint.
// This is what a room stores and relays to.
type MemberSession interface {
	ID() SessionID
	Meta() *domain.Peer
	Signal() SignalConnection
}
