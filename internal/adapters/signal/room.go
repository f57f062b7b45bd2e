package signal

import (
	"encoding/json"

	"github.com/dkeye/roomchat/internal/core"
	"github.com/dkeye/roomchat/internal/domain"
	"github.com/rs/zerolog/log"
)

type roomPayload struct {
	RoomName string `json:"roomName"`
}

type messagePayload struct {
	MessageText     string `json:"messageText"`
	MessageRoomName string `json:"messageRoomName"`
}

// parseRoom decodes a {roomName} payload, answering the client itself when
// the payload is unusable.
func (ctl *SignalWSController) parseRoom(sid core.SessionID, conn *WsSignalConn, data []byte) (domain.RoomName, bool) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad room payload")
		ctl.sendError(conn, "bad_payload")
		return "", false
	}
	room, err := domain.ParseRoomName(p.RoomName)
	if err != nil {
		ctl.sendError(conn, err.Error())
		return "", false
	}
	return room, true
}

func (ctl *SignalWSController) handleAddRoom(sid core.SessionID, conn *WsSignalConn, data []byte) {
	room, ok := ctl.parseRoom(sid, conn, data)
	if !ok {
		return
	}
	ctl.Orch.CreateRoom(sid, room)
}

func (ctl *SignalWSController) handleJoinRoom(sid core.SessionID, conn *WsSignalConn, data []byte) {
	room, ok := ctl.parseRoom(sid, conn, data)
	if !ok {
		return
	}
	ctl.Orch.JoinRoom(sid, room)
}

func (ctl *SignalWSController) handleLeaveRoom(sid core.SessionID, conn *WsSignalConn, data []byte) {
	room, ok := ctl.parseRoom(sid, conn, data)
	if !ok {
		return
	}
	ctl.Orch.LeaveRoom(sid, room)
}

func (ctl *SignalWSController) handleNewMessage(sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad message payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	room, err := domain.ParseRoomName(p.MessageRoomName)
	if err != nil {
		ctl.sendError(conn, err.Error())
		return
	}
	ctl.Orch.SendMessage(sid, room, p.MessageText)
}
