package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Rendezvous/internal/app/orch"
	"github.com/dkeye/Rendezvous/internal/config"
	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

type Settings struct {
	ReadLimit  int64
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	SendBuffer int

	JoinLimit    int
	JoinInterval time.Duration
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		PongWait:   cfg.PongWait(),
		WriteWait:  cfg.WriteWait,
		SendBuffer: cfg.SendBuffer,

		JoinLimit:    cfg.JoinLimit,
		JoinInterval: cfg.JoinInterval,
	}
}

type SignalWSController struct {
	Orch     *orch.Orchestrator
	Settings Settings
}

func NewSignalWSController(o *orch.Orchestrator, s Settings) *SignalWSController {
	return &SignalWSController{
		Orch:     o,
		Settings: s,
	}
}

// session is what the read loop carries for one socket.
type session struct {
	ms    core.MemberSession
	conn  *wsSignalConn
	joins *joinBudget
}

// wsSignalConn implements core.SignalConnection over one websocket.
// Close only closes the send queue; writePump drains it, says goodbye and
// closes the socket, which in turn ends readPump.
type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *wsSignalConn {
	return &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

// Closed reports whether Close has been called. Frames read after that
// point are not dispatched.
func (c *wsSignalConn) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and serves the socket until it closes.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ctl.Serve(ctx, ws, c.GetString("client_token"))
}

// Serve runs the pumps of one socket and blocks until both have exited.
// OnDisconnect is called exactly once afterwards, whatever ended the session.
func (ctl *SignalWSController) Serve(ctx context.Context, ws *websocket.Conn, clientToken string) {
	sid := core.SessionID(uuid.NewString())
	conn := newWsSignalConn(ws, ctl.Settings.SendBuffer)
	ms := core.NewMemberSession(sid, domain.NewPeer(), conn)
	sess := &session{
		ms:    ms,
		conn:  conn,
		joins: newJoinBudget(ctl.Settings.JoinLimit, ctl.Settings.JoinInterval),
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client", clientToken).Str("remote", ws.RemoteAddr().String()).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg conc.WaitGroup
	wg.Go(func() { ctl.writePump(ctx, conn) })
	wg.Go(func() { ctl.readPump(sess) })
	if r := wg.WaitAndRecover(); r != nil {
		log.Error().Str("module", "signal").Str("sid", string(sid)).Str("panic", r.String()).Msg("session pump panicked")
		conn.Close()
		_ = ws.Close()
	}

	ctl.Orch.OnDisconnect(ms)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("session closed")
}
