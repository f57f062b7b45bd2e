package core

import (
	"errors"

	"github.com/dkeye/roomchat/internal/domain"
)

// Frame is one encoded outbound event.
type Frame []byte

// SessionID identifies one connection; assigned by the transport.
type SessionID string

var (
	ErrBackpressure     = errors.New("backpressure")
	ErrConnectionClosed = errors.New("connection closed")
)

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// MemberSession binds a connected user and its transport endpoint.
// This is what the broadcaster resolves recipients to.
type MemberSession interface {
	ID() SessionID
	User() *domain.User
	Signal() SignalConnection
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}
