package core

import (
	"sync"

	"github.com/dkeye/roomchat/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type AddResult int

const (
	Added AddResult = iota
	AlreadyMember
)

type RemoveResult int

const (
	Removed RemoveResult = iota
	NotAMember
)

type membershipEntry struct {
	sid    SessionID
	member domain.Member
}

// MembershipTable is the single source of truth for who is in which room.
// The per-room lists and the per-session reverse index are mutated under the
// same lock so a session's joined rooms never diverge from the room lists.
type MembershipTable struct {
	mu        sync.RWMutex
	byRoom    map[domain.RoomName][]membershipEntry
	bySession map[SessionID][]domain.RoomName
}

func NewMembershipTable() *MembershipTable {
	return &MembershipTable{
		byRoom:    make(map[domain.RoomName][]membershipEntry),
		bySession: make(map[SessionID][]domain.RoomName),
	}
}

func (t *MembershipTable) AddMember(room domain.RoomName, sid SessionID, displayName string) AddResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.indexOf(room, sid) >= 0 {
		return AlreadyMember
	}
	t.byRoom[room] = append(t.byRoom[room], membershipEntry{
		sid:    sid,
		member: domain.Member{UserID: domain.UserID(sid), Username: displayName},
	})
	t.bySession[sid] = append(t.bySession[sid], room)
	log.Debug().Str("module", "core.membership").Str("sid", string(sid)).Str("room", string(room)).Msg("member added")
	return Added
}

func (t *MembershipTable) RemoveMember(room domain.RoomName, sid SessionID) RemoveResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.remove(room, sid) {
		return NotAMember
	}
	t.dropFromIndex(sid, room)
	log.Debug().Str("module", "core.membership").Str("sid", string(sid)).Str("room", string(room)).Msg("member removed")
	return Removed
}

// RemoveSessionFromAllRooms removes sid from every room it belongs to and
// returns those rooms in join order. Every room is processed.
func (t *MembershipTable) RemoveSessionFromAllRooms(sid SessionID) []domain.RoomName {
	t.mu.Lock()
	defer t.mu.Unlock()
	rooms := t.bySession[sid]
	delete(t.bySession, sid)
	out := make([]domain.RoomName, 0, len(rooms))
	for _, room := range rooms {
		if !t.remove(room, sid) {
			log.Warn().Str("module", "core.membership").Str("sid", string(sid)).Str("room", string(room)).Msg("index listed room without entry")
		}
		out = append(out, room)
	}
	return out
}

// ListMembers returns the ordered members of room; empty for a room nobody
// has joined.
func (t *MembershipTable) ListMembers(room domain.RoomName) []domain.Member {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return lo.Map(t.byRoom[room], func(e membershipEntry, _ int) domain.Member {
		return e.member
	})
}

// SessionsOf returns the session ids of room in join order.
func (t *MembershipTable) SessionsOf(room domain.RoomName) []SessionID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return lo.Map(t.byRoom[room], func(e membershipEntry, _ int) SessionID {
		return e.sid
	})
}

func (t *MembershipTable) IsMember(room domain.RoomName, sid SessionID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.indexOf(room, sid) >= 0
}

func (t *MembershipTable) RoomsOf(sid SessionID) []domain.RoomName {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.RoomName, len(t.bySession[sid]))
	copy(out, t.bySession[sid])
	return out
}

func (t *MembershipTable) MemberCount(room domain.RoomName) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byRoom[room])
}

func (t *MembershipTable) indexOf(room domain.RoomName, sid SessionID) int {
	_, idx, _ := lo.FindIndexOf(t.byRoom[room], func(e membershipEntry) bool {
		return e.sid == sid
	})
	return idx
}

// remove deletes the room entry only; callers keep the reverse index in step.
func (t *MembershipTable) remove(room domain.RoomName, sid SessionID) bool {
	idx := t.indexOf(room, sid)
	if idx < 0 {
		return false
	}
	entries := t.byRoom[room]
	t.byRoom[room] = append(entries[:idx:idx], entries[idx+1:]...)
	return true
}

func (t *MembershipTable) dropFromIndex(sid SessionID, room domain.RoomName) {
	rooms := lo.Without(t.bySession[sid], room)
	if len(rooms) == 0 {
		delete(t.bySession, sid)
		return
	}
	t.bySession[sid] = rooms
}
