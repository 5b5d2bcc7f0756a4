// Package orch drives admission, relay and disconnect cleanup against the
// shared app.Registry. Every operation runs inside one Registry.Atomically
// section, so membership changes and the notifications they cause are
// observed by other sessions as a single step.
package orch

import (
	"github.com/dkeye/Rendezvous/internal/app"
	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/protocol"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const DefaultMaxRoomIDLen = 128

type Orchestrator struct {
	Registry     *app.Registry
	Policy       app.Policy
	MaxRoomIDLen int

	validate *validator.Validate
}

func New(reg *app.Registry, policy app.Policy, maxRoomIDLen int) *Orchestrator {
	if policy == nil {
		policy = app.SimplePolicy{Action: app.DropFrame}
	}
	if maxRoomIDLen <= 0 {
		maxRoomIDLen = DefaultMaxRoomIDLen
	}
	return &Orchestrator{
		Registry:     reg,
		Policy:       policy,
		MaxRoomIDLen: maxRoomIDLen,
		validate:     validator.New(),
	}
}

// send encodes ev and enqueues it for ms. Failures are logged only: the
// receiving side is either closing or too slow, and will not be retried.
func send(ms core.MemberSession, ev protocol.Outbound) {
	data, err := protocol.Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("type", ev.EventType()).Msg("encode")
		return
	}
	if err := ms.Signal().TrySend(data); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(ms.ID())).Str("type", ev.EventType()).Msg("notify failed")
	}
}
