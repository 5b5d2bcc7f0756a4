package signal

import (
	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/protocol"
)

// handleRelay forwards offer/answer/candidate. Failures are logged by the
// orchestrator and never reported back to the sender.
func (ctl *SignalWSController) handleRelay(ms core.MemberSession, in protocol.Inbound) {
	_ = ctl.Orch.Relay(ms, in.Type, core.Frame(in.Raw))
}
