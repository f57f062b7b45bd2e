package app

import (
	"github.com/dkeye/roomchat/internal/core"
	"github.com/dkeye/roomchat/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Broadcaster delivers outbound events to sessions and rooms. Sends never
// block: a recipient whose buffer is full or closed is reported in the
// PublishResult and skipped.
type Broadcaster struct {
	Registry *Registry
	Members  *core.MembershipTable
	Messages *core.MessageFactory
}

// EmitTo sends one event to a single session.
func (b *Broadcaster) EmitTo(sid core.SessionID, event string, payload any) core.PublishResult {
	frame, err := EncodeFrame(event, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Str("sid", string(sid)).Msg("encode")
		return core.PublishResult{}
	}
	return b.send([]core.SessionID{sid}, frame)
}

// BroadcastRoster sends the current member list of room to every member.
func (b *Broadcaster) BroadcastRoster(room domain.RoomName) core.PublishResult {
	roster := domain.Roster{RoomName: room, ChatUsers: b.Members.ListMembers(room)}
	return b.toRoom(room, "", EventRoster, roster)
}

// BroadcastSystemMessage sends a system notice to the members of room except
// exclude (empty excludes nobody).
func (b *Broadcaster) BroadcastSystemMessage(room domain.RoomName, text string, exclude core.SessionID) (domain.Message, core.PublishResult, error) {
	msg, err := b.Messages.NewSystemMessage(text, room)
	if err != nil {
		return domain.Message{}, core.PublishResult{}, err
	}
	return msg, b.toRoom(room, exclude, EventSystemMessage, msg), nil
}

func (b *Broadcaster) BroadcastUserMessage(msg domain.Message) core.PublishResult {
	return b.toRoom(msg.Room(), "", EventNewMessage, msg)
}

func (b *Broadcaster) toRoom(room domain.RoomName, exclude core.SessionID, event string, payload any) core.PublishResult {
	frame, err := EncodeFrame(event, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Str("room", string(room)).Msg("encode")
		return core.PublishResult{}
	}
	recipients := b.Members.SessionsOf(room)
	if exclude != "" {
		recipients = lo.Without(recipients, exclude)
	}
	res := b.send(recipients, frame)
	log.Debug().Str("module", "app.broadcast").Str("room", string(room)).Str("event", event).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (b *Broadcaster) send(recipients []core.SessionID, frame core.Frame) core.PublishResult {
	res := core.PublishResult{}
	for _, sid := range recipients {
		sess, ok := b.Registry.GetSession(sid)
		if !ok {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		if err := sess.Signal().TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}
	return res
}
