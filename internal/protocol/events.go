package protocol

import "github.com/goccy/go-json"

// Outbound is any server-originated envelope.
type Outbound interface {
	EventType() string
}

type RoomJoined struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

type Message struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type UserJoined struct {
	Type        string `json:"type"`
	IsInitiator bool   `json:"isInitiator"`
	Name        string `json:"name"`
}

type UserLeft struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (RoomJoined) EventType() string { return TypeRoomJoined }
func (Message) EventType() string    { return TypeMessage }
func (UserJoined) EventType() string { return TypeUserJoined }
func (UserLeft) EventType() string   { return TypeUserLeft }
func (Error) EventType() string      { return TypeError }

func NewRoomJoined(roomID string) RoomJoined {
	return RoomJoined{Type: TypeRoomJoined, RoomID: roomID}
}

func NewMessage(text string) Message {
	return Message{Type: TypeMessage, Message: text}
}

func NewUserJoined(isInitiator bool, peerName string) UserJoined {
	return UserJoined{Type: TypeUserJoined, IsInitiator: isInitiator, Name: peerName}
}

func NewUserLeft(peerName string) UserLeft {
	return UserLeft{Type: TypeUserLeft, Name: peerName}
}

func NewError(text string) Error {
	return Error{Type: TypeError, Message: text}
}

// Encode serializes a server envelope.
func Encode(ev Outbound) ([]byte, error) {
	return json.Marshal(ev)
}
