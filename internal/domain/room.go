package domain

import "errors"

// RoomName is the only identity of a room.
type RoomName string

var ErrEmptyRoomName = errors.New("room name empty")

// ParseRoomName rejects the empty name; everything else is accepted as-is.
func ParseRoomName(raw string) (RoomName, error) {
	if raw == "" {
		return "", ErrEmptyRoomName
	}
	return RoomName(raw), nil
}
