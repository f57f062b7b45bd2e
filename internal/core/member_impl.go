package core

import "github.com/dkeye/roomchat/internal/domain"

// memberSession implements MemberSession by pairing meta + transport.
type memberSession struct {
	id     SessionID
	user   *domain.User
	signal SignalConnection
}

func NewMemberSession(id SessionID, user *domain.User, signal SignalConnection) MemberSession {
	return &memberSession{id: id, user: user, signal: signal}
}

func (m *memberSession) ID() SessionID            { return m.id }
func (m *memberSession) User() *domain.User       { return m.user }
func (m *memberSession) Signal() SignalConnection { return m.signal }
