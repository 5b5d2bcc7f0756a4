package app

import (
	"fmt"
	"strings"

	"github.com/dkeye/Rendezvous/internal/core"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

func (a BackpressureAction) String() string {
	switch a {
	case KickMember:
		return "kick"
	default:
		return "drop"
	}
}

// Policy decides what happens to a peer whose send queue is full.
type Policy interface {
	OnBackPressure(room *Room, member core.MemberSession) BackpressureAction
}

// SimplePolicy applies the same action to every slow member.
type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(_ *Room, _ core.MemberSession) BackpressureAction {
	return p.Action
}

// ParsePolicy maps the "backpressure" config value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return SimplePolicy{Action: DropFrame}, nil
	case "kick":
		return SimplePolicy{Action: KickMember}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", s)
	}
}
