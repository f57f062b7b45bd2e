package domain

import (
	"encoding/json"
	"errors"
	"time"
)

type MessageKind int

const (
	SystemMessage MessageKind = iota
	UserMessage
)

func (k MessageKind) String() string {
	if k == SystemMessage {
		return "system"
	}
	return "user"
}

var ErrEmptySender = errors.New("user message requires a sender")

// Message is an immutable chat envelope. System and user messages share the
// shape and differ only by Kind; Sender is empty for system messages.
// Build it through core.MessageFactory.
type Message struct {
	id     string
	kind   MessageKind
	text   string
	room   RoomName
	at     time.Time
	sender string
}

func NewMessage(id string, kind MessageKind, text string, room RoomName, at time.Time, sender string) (Message, error) {
	if room == "" {
		return Message{}, ErrEmptyRoomName
	}
	if kind == UserMessage && sender == "" {
		return Message{}, ErrEmptySender
	}
	if kind == SystemMessage {
		sender = ""
	}
	return Message{id: id, kind: kind, text: text, room: room, at: at.UTC(), sender: sender}, nil
}

func (m Message) ID() string           { return m.id }
func (m Message) Kind() MessageKind    { return m.kind }
func (m Message) Text() string         { return m.text }
func (m Message) Room() RoomName       { return m.room }
func (m Message) Timestamp() time.Time { return m.at }
func (m Message) IsSystem() bool       { return m.kind == SystemMessage }

// Sender returns the author name and false for system messages.
func (m Message) Sender() (string, bool) {
	return m.sender, m.kind == UserMessage
}

type messageJSON struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	RoomName   RoomName  `json:"roomName"`
	Timestamp  time.Time `json:"timestamp"`
	SenderName *string   `json:"senderName,omitempty"`
	IsSystem   bool      `json:"isSystem"`
}

// MarshalJSON encodes both kinds; the id is the one captured at construction.
func (m Message) MarshalJSON() ([]byte, error) {
	out := messageJSON{
		ID:        m.id,
		Text:      m.text,
		RoomName:  m.room,
		Timestamp: m.at,
		IsSystem:  m.IsSystem(),
	}
	if name, ok := m.Sender(); ok {
		out.SenderName = &name
	}
	return json.Marshal(out)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var in messageJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	kind, sender := SystemMessage, ""
	if !in.IsSystem {
		kind = UserMessage
		if in.SenderName != nil {
			sender = *in.SenderName
		}
	}
	parsed, err := NewMessage(in.ID, kind, in.Text, in.RoomName, in.Timestamp, sender)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
