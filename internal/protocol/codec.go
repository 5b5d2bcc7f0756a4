// Package protocol maps the JSON signaling envelope to typed events.
// Handshake payloads are never decoded; relayed frames keep their raw bytes.
package protocol

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var ErrMalformedEnvelope = errors.New("malformed envelope")

// Inbound discriminators.
const (
	TypeJoinRoom  = "joinRoom"
	TypeOffer     = "offer"
	TypeAnswer    = "answer"
	TypeCandidate = "candidate"
)

// Outbound discriminators.
const (
	TypeRoomJoined = "room-joined"
	TypeMessage    = "message"
	TypeUserJoined = "user-joined"
	TypeUserLeft   = "user-left"
	TypeError      = "error"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindJoin
	KindSignal
)

func (k Kind) String() string {
	switch k {
	case KindJoin:
		return "join"
	case KindSignal:
		return "signal"
	default:
		return "unknown"
	}
}

// Inbound is a decoded client envelope.
type Inbound struct {
	Kind Kind
	Type string

	// Set for KindJoin.
	RoomID string
	Name   string

	// Raw is the envelope exactly as received; relayed as is for KindSignal.
	Raw []byte
}

type envelope struct {
	Type *string `json:"type"`
}

type joinRoom struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

// Decode parses one client frame. Unknown discriminators are not an error;
// they come back as KindUnknown so the caller can answer the sender.
func Decode(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if env.Type == nil || *env.Type == "" {
		return Inbound{}, fmt.Errorf("%w: missing type", ErrMalformedEnvelope)
	}

	in := Inbound{Type: *env.Type, Raw: data}
	switch in.Type {
	case TypeJoinRoom:
		var p joinRoom
		if err := json.Unmarshal(data, &p); err != nil {
			return Inbound{}, fmt.Errorf("%w: %s: %v", ErrMalformedEnvelope, in.Type, err)
		}
		in.Kind = KindJoin
		in.RoomID = p.RoomID
		in.Name = p.Name
	case TypeOffer, TypeAnswer, TypeCandidate:
		in.Kind = KindSignal
	default:
		in.Kind = KindUnknown
	}
	return in, nil
}
