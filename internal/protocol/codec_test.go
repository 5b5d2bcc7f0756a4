package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/goccy/go-json"
)

func TestDecodeJoinRoom(t *testing.T) {
	in, err := Decode([]byte(`{"type":"joinRoom","roomId":"r1","name":"Alice"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Kind != KindJoin {
		t.Errorf("expected KindJoin, got %s", in.Kind)
	}
	if in.RoomID != "r1" || in.Name != "Alice" {
		t.Errorf("unexpected join fields: %+v", in)
	}
}

func TestDecodeJoinRoomWithoutRoomID(t *testing.T) {
	in, err := Decode([]byte(`{"type":"joinRoom"}`))
	if err != nil {
		t.Fatalf("missing roomId is an admission concern, got decode error %v", err)
	}
	if in.Kind != KindJoin || in.RoomID != "" {
		t.Errorf("unexpected decode result: %+v", in)
	}
}

func TestDecodeSignalKeepsRawBytes(t *testing.T) {
	raw := []byte(`{"type":"offer","offer":{"sdp":"v=0\r\no=- 1 2 IN IP4 0.0.0.0","type":"offer","x":[1,{"y":null}]},"roomId":"r1"}`)
	for _, typ := range []string{TypeOffer, TypeAnswer, TypeCandidate} {
		data := bytes.Replace(raw, []byte(`"type":"offer","offer"`), []byte(`"type":"`+typ+`","offer"`), 1)
		in, err := Decode(data)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", typ, err)
		}
		if in.Kind != KindSignal || in.Type != typ {
			t.Errorf("%s: unexpected decode result kind=%s type=%s", typ, in.Kind, in.Type)
		}
		if !bytes.Equal(in.Raw, data) {
			t.Errorf("%s: raw bytes changed", typ)
		}
	}
}

func TestDecodeUnknownType(t *testing.T) {
	in, err := Decode([]byte(`{"type":"rename","name":"x"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Kind != KindUnknown || in.Type != "rename" {
		t.Errorf("unexpected decode result: %+v", in)
	}
}

func TestDecodeMalformed(t *testing.T) {
	inputs := []string{
		`not json`,
		`{"type":`,
		`{}`,
		`{"type":""}`,
		`{"type":42}`,
		`[1,2,3]`,
		`{"type":"joinRoom","roomId":{"nested":true}}`,
	}
	for _, s := range inputs {
		if _, err := Decode([]byte(s)); !errors.Is(err, ErrMalformedEnvelope) {
			t.Errorf("Decode(%q): expected ErrMalformedEnvelope, got %v", s, err)
		}
	}
}

func TestEncodeWireShape(t *testing.T) {
	cases := []struct {
		ev   Outbound
		want string
	}{
		{NewRoomJoined("r1"), `{"type":"room-joined","roomId":"r1"}`},
		{NewMessage("Waiting..."), `{"type":"message","message":"Waiting..."}`},
		{NewUserJoined(false, "Alice"), `{"type":"user-joined","isInitiator":false,"name":"Alice"}`},
		{NewUserLeft("Bob"), `{"type":"user-left","name":"Bob"}`},
		{NewError("Unknown message type."), `{"type":"error","message":"Unknown message type."}`},
	}
	for _, c := range cases {
		got, err := Encode(c.ev)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.ev.EventType(), err)
		}
		if !jsonEqual(t, got, []byte(c.want)) {
			t.Errorf("%s: got %s, want %s", c.ev.EventType(), got, c.want)
		}
	}
}

func jsonEqual(t *testing.T, a, b []byte) bool {
	t.Helper()
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		t.Fatalf("unmarshal %s: %v", a, err)
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		t.Fatalf("unmarshal %s: %v", b, err)
	}
	ca, _ := json.Marshal(va)
	cb, _ := json.Marshal(vb)
	return bytes.Equal(ca, cb)
}
