package signal

import "github.com/dkeye/roomchat/internal/app"

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, app.EventPong, nil)
}
