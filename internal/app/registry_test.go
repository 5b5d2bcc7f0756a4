package app

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/domain"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func newSession(id string) core.MemberSession {
	return core.NewMemberSession(core.SessionID(id), domain.NewPeer(), nopConn{})
}

func admit(reg *Registry, id domain.RoomID, ms core.MemberSession) (n int, err error) {
	reg.Atomically(func(tx *Tx) {
		var room *Room
		room, err = tx.Admit(id, ms)
		if err == nil {
			n = room.Len()
		}
	})
	return n, err
}

func remove(reg *Registry, sid core.SessionID) (deleted, ok bool) {
	reg.Atomically(func(tx *Tx) {
		_, deleted, ok = tx.Remove(sid)
	})
	return deleted, ok
}

func TestAdmitCreatesRoomOnDemand(t *testing.T) {
	reg := NewRegistry()
	n, err := admit(reg, "r1", newSession("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 member, got %d", n)
	}
	reg.Atomically(func(tx *Tx) {
		if room, ok := tx.RoomOf("a"); !ok || room.ID != "r1" {
			t.Errorf("reverse map not updated: %v", ok)
		}
	})
}

func TestAdmitKeepsArrivalOrder(t *testing.T) {
	reg := NewRegistry()
	a, b := newSession("a"), newSession("b")
	admit(reg, "r1", a)
	admit(reg, "r1", b)

	reg.Atomically(func(tx *Tx) {
		room, ok := tx.Room("r1")
		if !ok {
			t.Fatal("room missing")
		}
		members := room.Members()
		if members[0].ID() != "a" || members[1].ID() != "b" {
			t.Errorf("unexpected order: %s, %s", members[0].ID(), members[1].ID())
		}
		if other, _ := room.Other("a"); other.ID() != "b" {
			t.Errorf("expected b as other of a, got %s", other.ID())
		}
	})
}

func TestAdmitRejectsThirdMember(t *testing.T) {
	reg := NewRegistry()
	admit(reg, "r1", newSession("a"))
	admit(reg, "r1", newSession("b"))
	if _, err := admit(reg, "r1", newSession("c")); !errors.Is(err, domain.ErrRoomFull) {
		t.Errorf("expected ErrRoomFull, got %v", err)
	}
	reg.Atomically(func(tx *Tx) {
		if _, ok := tx.RoomOf("c"); ok {
			t.Error("rejected session must not be in reverse map")
		}
	})
}

func TestAdmitRejectsSecondRoom(t *testing.T) {
	reg := NewRegistry()
	a := newSession("a")
	admit(reg, "r1", a)
	if _, err := admit(reg, "r2", a); !errors.Is(err, domain.ErrAlreadyInRoom) {
		t.Errorf("expected ErrAlreadyInRoom, got %v", err)
	}
	if reg.Len() != 1 {
		t.Errorf("expected 1 room, got %d", reg.Len())
	}
}

func TestRemoveDeletesEmptyRoom(t *testing.T) {
	reg := NewRegistry()
	admit(reg, "r1", newSession("a"))
	admit(reg, "r1", newSession("b"))

	deleted, ok := remove(reg, "b")
	if !ok || deleted {
		t.Errorf("first removal: deleted=%v ok=%v", deleted, ok)
	}
	if info, _ := reg.Get("r1"); info.MemberCount != 1 {
		t.Errorf("expected 1 member left, got %d", info.MemberCount)
	}

	deleted, ok = remove(reg, "a")
	if !ok || !deleted {
		t.Errorf("second removal: deleted=%v ok=%v", deleted, ok)
	}
	if _, ok := reg.Get("r1"); ok {
		t.Error("room should be gone")
	}

	if _, ok := remove(reg, "a"); ok {
		t.Error("removing twice should be a no-op")
	}
}

func TestRemoveUnknownSession(t *testing.T) {
	reg := NewRegistry()
	if _, ok := remove(reg, "ghost"); ok {
		t.Error("expected no-op for unknown session")
	}
}

func TestConcurrentAdmitCapacity(t *testing.T) {
	for round := 0; round < 50; round++ {
		reg := NewRegistry()
		const joiners = 16

		var wg sync.WaitGroup
		var mu sync.Mutex
		admitted, full := 0, 0
		for i := 0; i < joiners; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := admit(reg, "r1", newSession(fmt.Sprintf("s%d", i)))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					admitted++
				case errors.Is(err, domain.ErrRoomFull):
					full++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(i)
		}
		wg.Wait()

		if admitted != domain.RoomCapacity || full != joiners-domain.RoomCapacity {
			t.Fatalf("round %d: admitted=%d full=%d", round, admitted, full)
		}
	}
}

func TestConcurrentRemoveDeletesOnce(t *testing.T) {
	for round := 0; round < 50; round++ {
		reg := NewRegistry()
		admit(reg, "r1", newSession("a"))
		admit(reg, "r1", newSession("b"))

		var wg sync.WaitGroup
		results := make(chan bool, 2)
		for _, sid := range []core.SessionID{"a", "b"} {
			wg.Add(1)
			go func(sid core.SessionID) {
				defer wg.Done()
				deleted, _ := remove(reg, sid)
				results <- deleted
			}(sid)
		}
		wg.Wait()
		close(results)

		deletions := 0
		for d := range results {
			if d {
				deletions++
			}
		}
		if deletions != 1 {
			t.Fatalf("round %d: expected exactly one deletion, got %d", round, deletions)
		}
		if reg.Len() != 0 {
			t.Fatalf("round %d: registry not empty", round)
		}
	}
}

func TestListSnapshot(t *testing.T) {
	reg := NewRegistry()
	a := newSession("a")
	a.Meta().SetName("Alice")
	admit(reg, "r2", a)
	admit(reg, "r1", newSession("b"))

	rooms := reg.List()
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms))
	}
	if rooms[0].ID != "r1" || rooms[1].ID != "r2" {
		t.Errorf("expected rooms sorted by id, got %s, %s", rooms[0].ID, rooms[1].ID)
	}
	if rooms[1].Members[0].Name != "Alice" {
		t.Errorf("expected Alice in r2, got %q", rooms[1].Members[0].Name)
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]BackpressureAction{"": DropFrame, "drop": DropFrame, "KICK": KickMember} {
		p, err := ParsePolicy(in)
		if err != nil {
			t.Fatalf("ParsePolicy(%q): %v", in, err)
		}
		if got := p.OnBackPressure(nil, nil); got != want {
			t.Errorf("ParsePolicy(%q) action = %s, want %s", in, got, want)
		}
	}
	if _, err := ParsePolicy("ignore"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
