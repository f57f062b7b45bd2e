package orch

import (
	"github.com/dkeye/roomchat/internal/app"
	"github.com/dkeye/roomchat/internal/core"
	"github.com/dkeye/roomchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// SendMessage delivers a user message to whoever is currently in room.
// Membership of the sender is not required.
func (o *Orchestrator) SendMessage(sid core.SessionID, room domain.RoomName, text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.session(sid, "new_message")
	if !ok {
		return
	}
	msg, err := o.Presence.Messages.NewUserMessage(text, room, sess.User().Username)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("new user message")
		o.emit(sid, app.EventError, "invalid message")
		return
	}
	res := o.Presence.BroadcastUserMessage(msg)
	o.archive(msg)
	o.handleDropped(res)
}
