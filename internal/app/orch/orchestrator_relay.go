package orch

import (
	"errors"
	"fmt"

	"github.com/dkeye/Rendezvous/internal/app"
	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/domain"
	"github.com/rs/zerolog/log"
)

// Relay forwards frame verbatim to the other member of the sender's room.
// The returned errors describe why nothing was forwarded; none of them is
// meant for the sender.
func (o *Orchestrator) Relay(ms core.MemberSession, kind string, frame core.Frame) error {
	var err error
	o.Registry.Atomically(func(tx *app.Tx) {
		room, ok := tx.RoomOf(ms.ID())
		if !ok {
			err = domain.ErrNotInRoom
			return
		}
		if room.Len() < domain.RoomCapacity {
			err = fmt.Errorf("%w: room %s", domain.ErrNoPeer, room.ID)
			return
		}
		peer, ok := room.Other(ms.ID())
		if !ok {
			err = fmt.Errorf("%w: room %s", domain.ErrNoPeer, room.ID)
			return
		}
		if sendErr := peer.Signal().TrySend(frame); sendErr != nil {
			err = fmt.Errorf("%w: %w", domain.ErrPeerUnreachable, sendErr)
			if errors.Is(sendErr, core.ErrBackpressure) && o.Policy.OnBackPressure(room, peer) == app.KickMember {
				log.Warn().Str("module", "orch").Str("room", string(room.ID)).Str("sid", string(peer.ID())).Msg("kicking slow peer")
				peer.Signal().Close()
			}
			return
		}
		log.Debug().Str("module", "orch").Str("room", string(room.ID)).Str("type", kind).Str("from", string(ms.ID())).Str("to", string(peer.ID())).Msg("relayed")
	})
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(ms.ID())).Str("type", kind).Msg("relay dropped")
	}
	return err
}
