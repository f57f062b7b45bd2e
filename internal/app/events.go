package app

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/roomchat/internal/core"
	"github.com/dkeye/roomchat/internal/domain"
)

// Outbound event names.
const (
	EventConnected        = "connected"
	EventRoomCreated      = "room_created"
	EventRoomAlreadyExist = "room_already_exist"
	EventRoomJoined       = "room_joined"
	EventRoomNotExist     = "room_not_exit"
	EventAlreadyJoined    = "already_joined"
	EventSystemMessage    = "user_list_changed"
	EventRoster           = "room_users_list"
	EventNewMessage       = "new_message_in_room"
	EventWhoAmI           = "whoami"
	EventPong             = "pong"
	EventError            = "error"
)

// Envelope is the wire frame in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type RoomPayload struct {
	RoomName domain.RoomName `json:"roomName"`
}

type WhoAmIPayload struct {
	UserID   domain.UserID     `json:"userId"`
	UserName string            `json:"userName"`
	Rooms    []domain.RoomName `json:"rooms"`
}

// EncodeFrame marshals one outbound event.
func EncodeFrame(event string, payload any) (core.Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event, err)
	}
	b, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", event, err)
	}
	return b, nil
}
