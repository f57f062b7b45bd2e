package core

import (
	"fmt"
	"time"

	"github.com/dkeye/roomchat/internal/domain"
	"github.com/google/uuid"
)

// MessageFactory stamps envelopes with a fresh id and the capture time.
// Ids are generated once here and never again on re-encoding.
type MessageFactory struct {
	now   func() time.Time
	newID func() string
}

func NewMessageFactory() *MessageFactory {
	return &MessageFactory{now: time.Now, newID: uuid.NewString}
}

// WithClock returns a copy of the factory reading time from now.
func (f *MessageFactory) WithClock(now func() time.Time) *MessageFactory {
	cp := *f
	cp.now = now
	return &cp
}

// WithIDs returns a copy of the factory drawing ids from next.
func (f *MessageFactory) WithIDs(next func() string) *MessageFactory {
	cp := *f
	cp.newID = next
	return &cp
}

func (f *MessageFactory) NewSystemMessage(text string, room domain.RoomName) (domain.Message, error) {
	return f.build(domain.SystemMessage, text, room, "")
}

func (f *MessageFactory) NewUserMessage(text string, room domain.RoomName, sender string) (domain.Message, error) {
	return f.build(domain.UserMessage, text, room, sender)
}

func (f *MessageFactory) build(kind domain.MessageKind, text string, room domain.RoomName, sender string) (domain.Message, error) {
	msg, err := domain.NewMessage(f.newID(), kind, text, room, f.now().UTC(), sender)
	if err != nil {
		return domain.Message{}, fmt.Errorf("new %s message: %w", kind, err)
	}
	return msg, nil
}
