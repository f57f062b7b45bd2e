package orch

import (
	"fmt"

	"github.com/dkeye/roomchat/internal/app"
	"github.com/dkeye/roomchat/internal/core"
	"github.com/dkeye/roomchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// CreateRoom registers room and makes the requester its first member.
func (o *Orchestrator) CreateRoom(sid core.SessionID, room domain.RoomName) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.session(sid, "add_room")
	if !ok {
		return
	}
	if o.Rooms.Create(room) == core.AlreadyExists {
		o.emit(sid, app.EventRoomAlreadyExist, fmt.Sprintf("room %s already exists", room))
		return
	}
	o.Members.AddMember(room, sid, sess.User().Username)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room)).Msg("room created")
	o.emit(sid, app.EventRoomCreated, app.RoomPayload{RoomName: room})
	o.roster(room)
}

// JoinRoom checks membership before existence.
func (o *Orchestrator) JoinRoom(sid core.SessionID, room domain.RoomName) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.session(sid, "join_room")
	if !ok {
		return
	}
	if o.Members.IsMember(room, sid) {
		o.emit(sid, app.EventAlreadyJoined, fmt.Sprintf("you are already in room %s", room))
		return
	}
	if !o.Rooms.Exists(room) {
		o.emit(sid, app.EventRoomNotExist, fmt.Sprintf("room %s does not exist", room))
		return
	}
	name := sess.User().Username
	if o.Members.AddMember(room, sid, name) == core.AlreadyMember {
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room)).Msg("joined room")
	o.emit(sid, app.EventRoomJoined, app.RoomPayload{RoomName: room})
	o.systemMessage(room, fmt.Sprintf("user %s has joined", name), sid)
	o.roster(room)
}

// LeaveRoom only notifies the room when the session actually was a member.
func (o *Orchestrator) LeaveRoom(sid core.SessionID, room domain.RoomName) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.session(sid, "leave_room")
	if !ok {
		return
	}
	if o.Members.RemoveMember(room, sid) == core.NotAMember {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room)).Msg("leave without membership")
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room)).Msg("left room")
	o.systemMessage(room, fmt.Sprintf("user %s has left", sess.User().Username), "")
	o.roster(room)
}
