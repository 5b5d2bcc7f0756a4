package signal

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *wsSignalConn) {
	ticker := time.NewTicker(ctl.Settings.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			c.Close()
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(ctl.Settings.WriteWait))
			return
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.Settings.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				c.Close()
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.Settings.WriteWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				c.Close()
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(s *session) {
	c := s.conn
	sid := s.ms.ID()
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		c.Close()
	}()

	if ctl.Settings.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.Settings.ReadLimit)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.Settings.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.Settings.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
			}
			return
		}
		// writePump owns the socket teardown; anything still buffered is dropped.
		if c.Closed() {
			log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("frame after close dropped")
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(ctl.Settings.PongWait))
		ctl.handleSignal(s, data)
	}
}

func (ctl *SignalWSController) handleSignal(s *session, data []byte) {
	sid := string(s.ms.ID())
	if s.conn.Closed() {
		return
	}
	in, err := protocol.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", sid).Msg("bad json")
		return
	}
	log.Debug().Str("module", "signal").Str("sid", sid).Stringer("kind", in.Kind).Str("type", in.Type).Msg("inbound")

	switch in.Kind {
	case protocol.KindJoin:
		ctl.handleJoin(s, in)
	case protocol.KindSignal:
		ctl.handleRelay(s.ms, in)
	default:
		log.Warn().Str("module", "signal").Str("sid", sid).Str("type", in.Type).Msg("unknown signal")
		ctl.sendError(s.conn, msgUnknownType)
	}
}

func (ctl *SignalWSController) sendJSON(c *wsSignalConn, ev protocol.Outbound) {
	b, err := protocol.Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	if err := c.TrySend(b); err != nil && !errors.Is(err, core.ErrConnClosed) {
		log.Warn().Err(err).Str("module", "signal").Str("type", ev.EventType()).Msg("sendJSON")
	}
}

func (ctl *SignalWSController) sendError(c *wsSignalConn, text string) {
	ctl.sendJSON(c, protocol.NewError(text))
}
