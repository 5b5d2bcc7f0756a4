package orch

import (
	"fmt"

	"github.com/dkeye/Rendezvous/internal/app"
	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/domain"
	"github.com/dkeye/Rendezvous/internal/protocol"
	"github.com/rs/zerolog/log"
)

type JoinResult struct {
	RoomID  domain.RoomID
	Members int
	// Ready is set when this join filled the room.
	Ready bool
}

type joinRequest struct {
	RoomID string `validate:"required"`
}

// Join admits ms into roomID under the two-member cap and notifies the
// members. On ErrRoomFull the caller is expected to close the session.
func (o *Orchestrator) Join(ms core.MemberSession, roomID domain.RoomID, name string) (JoinResult, error) {
	if err := o.validate.Struct(joinRequest{RoomID: string(roomID)}); err != nil {
		return JoinResult{}, fmt.Errorf("%w: room id is required", domain.ErrInvalidRequest)
	}
	if err := o.validate.Var(string(roomID), fmt.Sprintf("max=%d", o.MaxRoomIDLen)); err != nil {
		return JoinResult{}, fmt.Errorf("%w: room id longer than %d", domain.ErrInvalidRequest, o.MaxRoomIDLen)
	}

	var (
		res JoinResult
		err error
	)
	o.Registry.Atomically(func(tx *app.Tx) {
		var room *app.Room
		room, err = tx.Admit(roomID, ms)
		if err != nil {
			return
		}
		ms.Meta().SetName(name)
		res = JoinResult{RoomID: roomID, Members: room.Len(), Ready: room.Len() == domain.RoomCapacity}

		send(ms, protocol.NewRoomJoined(string(roomID)))

		members := room.Members()
		switch len(members) {
		case 1:
			send(ms, protocol.NewMessage(fmt.Sprintf("Waiting for another user to join room %s...", roomID)))
		case domain.RoomCapacity:
			first, second := members[0], members[1]
			send(first, protocol.NewUserJoined(true, second.Meta().Name()))
			send(second, protocol.NewUserJoined(false, first.Meta().Name()))
			log.Info().Str("module", "orch").Str("room", string(roomID)).Str("initiator", string(first.ID())).Msg("room ready")
		}
	})
	if err != nil {
		log.Info().Err(err).Str("module", "orch").Str("sid", string(ms.ID())).Str("room", string(roomID)).Msg("join rejected")
		return JoinResult{}, err
	}
	return res, nil
}
