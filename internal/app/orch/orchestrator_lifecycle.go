package orch

import (
	"github.com/dkeye/Rendezvous/internal/app"
	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/domain"
	"github.com/dkeye/Rendezvous/internal/protocol"
	"github.com/rs/zerolog/log"
)

// OnDisconnect removes ms from its room once its transport is gone and tells
// the remaining member. It is a no-op for sessions that never joined.
func (o *Orchestrator) OnDisconnect(ms core.MemberSession) {
	o.Registry.Atomically(func(tx *app.Tx) {
		room, deleted, ok := tx.Remove(ms.ID())
		if !ok || deleted {
			return
		}
		name := ms.Meta().Name()
		if name == "" {
			name = domain.DepartedPeerName
		}
		for _, m := range room.Members() {
			send(m, protocol.NewUserLeft(name))
		}
		log.Info().Str("module", "orch").Str("room", string(room.ID)).Str("sid", string(ms.ID())).Str("name", name).Msg("peer left")
	})
}
