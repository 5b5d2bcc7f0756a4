// Package domain contains entity without transport logic, just meta-data
package domain

import (
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	MaxPeerNameLen = 36

	// DefaultPeerName is recorded for a peer that joins without a name.
	DefaultPeerName = "Anonymous"
	// DepartedPeerName is announced when a leaving peer has no recorded name.
	DepartedPeerName = "A user"
)

// Peer is the participant behind one signaling connection.
// Name may be set once the peer joins a room and is read by the other member,
// so access goes through the accessors.
type Peer struct {
	mu   sync.RWMutex
	name string
}

func NewPeer() *Peer {
	return &Peer{}
}

func (p *Peer) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

// SetName stores a normalized display name, falling back to DefaultPeerName.
func (p *Peer) SetName(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = NormalizeName(name)
}

// NormalizeName trims and caps a display name at MaxPeerNameLen runes.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultPeerName
	}
	if utf8.RuneCountInString(name) > MaxPeerNameLen {
		name = string([]rune(name)[:MaxPeerNameLen])
	}
	return name
}
