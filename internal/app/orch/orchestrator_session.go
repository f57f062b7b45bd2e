package orch

import (
	"context"
	"fmt"

	"github.com/dkeye/roomchat/internal/app"
	"github.com/dkeye/roomchat/internal/core"
	"github.com/dkeye/roomchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// OnConnect registers a freshly attached session and greets it.
func (o *Orchestrator) OnConnect(sess core.MemberSession, cancel context.CancelFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Registry.Bind(sess, cancel)
	o.emit(sess.ID(), app.EventConnected, fmt.Sprintf("connected as %s", sess.User().Username))
}

// OnDisconnect removes the session from every room it belonged to and tells
// each of those rooms. A failure in one room never stops the sweep.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return
	}
	rooms := o.Members.RemoveSessionFromAllRooms(sid)
	o.Registry.Unbind(sid)
	name := sess.User().Username
	for _, room := range rooms {
		o.announceDeparture(room, fmt.Sprintf("user %s has disconnected", name))
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Int("rooms", len(rooms)).Msg("session disconnected")
}

func (o *Orchestrator) announceDeparture(room domain.RoomName, text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "orch").Str("room", string(room)).Interface("panic", r).Msg("departure broadcast failed")
		}
	}()
	if o.Members.MemberCount(room) == 0 {
		log.Debug().Str("module", "orch").Str("room", string(room)).Msg("no members left, skip broadcast")
		return
	}
	o.systemMessage(room, text, "")
	o.roster(room)
}

// WhoAmI reports the session's identity and joined rooms back to it.
func (o *Orchestrator) WhoAmI(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.session(sid, app.EventWhoAmI)
	if !ok {
		return
	}
	o.emit(sid, app.EventWhoAmI, app.WhoAmIPayload{
		UserID:   sess.User().ID,
		UserName: sess.User().Username,
		Rooms:    o.Members.RoomsOf(sid),
	})
}
