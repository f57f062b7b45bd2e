// Package orch routes inbound session events to the room state and decides
// what every affected session is told about it.
package orch

import (
	"sync"

	"github.com/dkeye/roomchat/internal/app"
	"github.com/dkeye/roomchat/internal/core"
	"github.com/dkeye/roomchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// MessageSink receives every message the gateway broadcasts. It must not
// block.
type MessageSink interface {
	Store(msg domain.Message)
}

// Orchestrator is the single state owner. Every event runs to completion
// under mu, mutation first and broadcasts after, so rosters always show the
// state the mutation produced.
type Orchestrator struct {
	mu sync.Mutex

	Registry *app.Registry
	Rooms    *core.RoomDirectory
	Members  *core.MembershipTable
	Presence *app.Broadcaster
	Policy   app.Policy
	Archive  MessageSink
}

func New(policy app.Policy, archive MessageSink) *Orchestrator {
	reg := app.NewRegistry()
	members := core.NewMembershipTable()
	return &Orchestrator{
		Registry: reg,
		Rooms:    core.NewRoomDirectory(),
		Members:  members,
		Presence: &app.Broadcaster{
			Registry: reg,
			Members:  members,
			Messages: core.NewMessageFactory(),
		},
		Policy:  policy,
		Archive: archive,
	}
}

// session resolves a live session; events from unknown or disconnected
// sessions are ignored.
func (o *Orchestrator) session(sid core.SessionID, event string) (core.MemberSession, bool) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("event", event).Msg("event from unknown session ignored")
	}
	return sess, ok
}

func (o *Orchestrator) emit(sid core.SessionID, event string, payload any) {
	o.handleDropped(o.Presence.EmitTo(sid, event, payload))
}

func (o *Orchestrator) roster(room domain.RoomName) {
	o.handleDropped(o.Presence.BroadcastRoster(room))
}

func (o *Orchestrator) systemMessage(room domain.RoomName, text string, exclude core.SessionID) {
	msg, res, err := o.Presence.BroadcastSystemMessage(room, text, exclude)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(room)).Msg("system message")
		return
	}
	o.archive(msg)
	o.handleDropped(res)
}

func (o *Orchestrator) archive(msg domain.Message) {
	if o.Archive != nil {
		o.Archive.Store(msg)
	}
}

func (o *Orchestrator) handleDropped(res core.PublishResult) {
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(slow) {
		case app.KickMember:
			if o.Registry.Cancel(slow) {
				log.Warn().Str("module", "orch").Str("sid", string(slow)).Msg("kicked slow consumer")
			}
		case app.DropFrame, app.NoAction:
			log.Debug().Str("module", "orch").Str("sid", string(slow)).Msg("frame dropped")
		}
	}
}
