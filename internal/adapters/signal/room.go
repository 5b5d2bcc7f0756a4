package signal

import (
	"errors"

	"github.com/dkeye/Rendezvous/internal/domain"
	"github.com/dkeye/Rendezvous/internal/protocol"
	"github.com/rs/zerolog/log"
)

const (
	msgRoomIDRequired = "Room ID is required."
	msgRoomFull       = "Room is full. Please try another room."
	msgAlreadyInRoom  = "You are already in a room."
	msgTooManyJoins   = "Too many join attempts. Please wait and try again."
	msgUnknownType    = "Unknown message type."
)

func (ctl *SignalWSController) handleJoin(s *session, in protocol.Inbound) {
	ms, conn := s.ms, s.conn
	sid := ms.ID()
	if !s.joins.take() {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("join rate limited")
		ctl.sendError(conn, msgTooManyJoins)
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room_id", in.RoomID).Msg("join")
	_, err := ctl.Orch.Join(ms, domain.RoomID(in.RoomID), in.Name)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrRoomFull):
		// The rejected session is done; the read loop stops dispatching.
		ctl.sendError(conn, msgRoomFull)
		conn.Close()
	case errors.Is(err, domain.ErrInvalidRequest):
		ctl.sendError(conn, msgRoomIDRequired)
	case errors.Is(err, domain.ErrAlreadyInRoom):
		ctl.sendError(conn, msgAlreadyInRoom)
	default:
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("join failed")
	}
}
