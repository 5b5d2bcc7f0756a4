package app

import (
	"sort"
	"sync"

	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/domain"
	"github.com/rs/zerolog/log"
)

// Room is the ordered member list of one room. Index 0 joined first.
// It is only safe to use inside Registry.Atomically.
type Room struct {
	ID      domain.RoomID
	members []core.MemberSession
}

func (r *Room) Len() int { return len(r.members) }

// Members returns the members in arrival order.
func (r *Room) Members() []core.MemberSession {
	out := make([]core.MemberSession, len(r.members))
	copy(out, r.members)
	return out
}

// Other returns the member that is not sid.
func (r *Room) Other(sid core.SessionID) (core.MemberSession, bool) {
	for _, m := range r.members {
		if m.ID() != sid {
			return m, true
		}
	}
	return nil, false
}

func (r *Room) info() core.RoomInfo {
	members := make([]core.MemberDTO, 0, len(r.members))
	for _, m := range r.members {
		members = append(members, core.MemberDTO{ID: m.ID(), Name: m.Meta().Name()})
	}
	return core.RoomInfo{ID: r.ID, MemberCount: len(r.members), Members: members}
}

// Registry is the single owner of room membership.
// rooms and bySID are always mutated together under mu.
type Registry struct {
	mu    sync.Mutex
	rooms map[domain.RoomID]*Room
	bySID map[core.SessionID]domain.RoomID
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[domain.RoomID]*Room),
		bySID: make(map[core.SessionID]domain.RoomID),
	}
}

// Atomically runs fn with exclusive access to the registry. fn must not block
// on I/O; enqueueing frames through core.SignalConnection.TrySend is fine.
func (r *Registry) Atomically(fn func(tx *Tx)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&Tx{reg: r})
}

// Tx is the registry view handed to Atomically. It must not escape fn.
type Tx struct {
	reg *Registry
}

func (tx *Tx) Room(id domain.RoomID) (*Room, bool) {
	room, ok := tx.reg.rooms[id]
	return room, ok
}

// RoomOf resolves the room of a session through the reverse map.
func (tx *Tx) RoomOf(sid core.SessionID) (*Room, bool) {
	id, ok := tx.reg.bySID[sid]
	if !ok {
		return nil, false
	}
	room, ok := tx.reg.rooms[id]
	return room, ok
}

// Admit appends ms to room id, creating the room on demand.
func (tx *Tx) Admit(id domain.RoomID, ms core.MemberSession) (*Room, error) {
	if _, ok := tx.reg.bySID[ms.ID()]; ok {
		return nil, domain.ErrAlreadyInRoom
	}
	room, ok := tx.reg.rooms[id]
	if ok && room.Len() >= domain.RoomCapacity {
		return nil, domain.ErrRoomFull
	}
	if !ok {
		room = &Room{ID: id, members: make([]core.MemberSession, 0, domain.RoomCapacity)}
		tx.reg.rooms[id] = room
		log.Info().Str("module", "app.registry").Str("room", string(id)).Msg("room created")
	}
	room.members = append(room.members, ms)
	tx.reg.bySID[ms.ID()] = id
	log.Info().Str("module", "app.registry").Str("room", string(id)).Str("sid", string(ms.ID())).Int("members", room.Len()).Msg("member added")
	return room, nil
}

// Remove drops sid from its room. deleted reports that the room became empty
// and was removed from the registry; ok is false if sid was in no room.
func (tx *Tx) Remove(sid core.SessionID) (room *Room, deleted bool, ok bool) {
	id, ok := tx.reg.bySID[sid]
	if !ok {
		return nil, false, false
	}
	delete(tx.reg.bySID, sid)

	room, ok = tx.reg.rooms[id]
	if !ok {
		log.Warn().Str("module", "app.registry").Str("room", string(id)).Str("sid", string(sid)).Msg("reverse entry without room")
		return nil, false, false
	}
	kept := room.members[:0]
	for _, m := range room.members {
		if m.ID() != sid {
			kept = append(kept, m)
		}
	}
	// drop the stale tail reference
	for i := len(kept); i < len(room.members); i++ {
		room.members[i] = nil
	}
	room.members = kept
	log.Info().Str("module", "app.registry").Str("room", string(id)).Str("sid", string(sid)).Int("members", room.Len()).Msg("member removed")

	if room.Len() == 0 {
		delete(tx.reg.rooms, id)
		log.Info().Str("module", "app.registry").Str("room", string(id)).Msg("room deleted")
		return room, true, true
	}
	return room, false, true
}

// List returns a snapshot of all rooms ordered by id.
func (r *Registry) List() []core.RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.RoomInfo, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room.info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) Get(id domain.RoomID) (core.RoomInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return core.RoomInfo{}, false
	}
	return room.info(), true
}

// Len is the number of live rooms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
