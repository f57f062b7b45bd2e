// Package archive persists broadcast messages to an embedded Badger store.
// It is write-only: the gateway never reads history back.
package archive

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dkeye/roomchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// BadgerArchive queues messages and writes them from one goroutine so the
// caller never waits on disk.
type BadgerArchive struct {
	db    *badger.DB
	queue chan domain.Message
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func Open(path string, buffer int) (*BadgerArchive, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	return New(db, buffer), nil
}

func New(db *badger.DB, buffer int) *BadgerArchive {
	if buffer <= 0 {
		buffer = 256
	}
	a := &BadgerArchive{
		db:    db,
		queue: make(chan domain.Message, buffer),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

// Store enqueues msg. A full queue drops the message.
func (a *BadgerArchive) Store(msg domain.Message) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return
	}
	select {
	case a.queue <- msg:
	default:
		log.Warn().Str("module", "archive").Str("id", msg.ID()).Msg("archive queue full, message dropped")
	}
}

// Close drains the queue and closes the store.
func (a *BadgerArchive) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
	return a.db.Close()
}

func (a *BadgerArchive) run() {
	defer close(a.done)
	for msg := range a.queue {
		if err := a.write(msg); err != nil {
			log.Error().Err(err).Str("module", "archive").Str("id", msg.ID()).Msg("store message")
		}
	}
}

// RoomPrefix is the key prefix shared by every message of room. The name is
// length prefixed so a room never matches another room's prefix.
func RoomPrefix(room domain.RoomName) []byte {
	return []byte(fmt.Sprintf("msg:%d:%s:", len(room), room))
}

// key sorts a room's messages chronologically: the timestamp is zero padded
// and the id breaks ties inside one nanosecond.
func key(msg domain.Message) []byte {
	return append(RoomPrefix(msg.Room()), fmt.Sprintf("%019d:%s", msg.Timestamp().UnixNano(), msg.ID())...)
}

func (a *BadgerArchive) write(msg domain.Message) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(msg), value)
	})
}
