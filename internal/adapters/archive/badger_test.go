package archive

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dkeye/roomchat/internal/domain"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T, dir string) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	return db
}

func TestBadgerArchive_StoresMessagesInOrder(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	arc := New(openDB(t, dir), 16)

	at := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	var want []domain.Message
	for i, text := range []string{"first", "second", "third"} {
		msg, err := domain.NewMessage(text+"-id", domain.UserMessage, text, "general", at.Add(time.Duration(i)*time.Second), "bob")
		req.NoError(err)
		want = append(want, msg)
	}
	notice, err := domain.NewMessage("sys-id", domain.SystemMessage, "user bob has joined", "random", at, "")
	req.NoError(err)

	arc.Store(want[2])
	arc.Store(notice)
	arc.Store(want[0])
	arc.Store(want[1])
	req.NoError(arc.Close())
	req.NoError(arc.Close())
	arc.Store(want[0])

	db := openDB(t, dir)
	defer db.Close()
	req.Equal(want, scanRoom(t, db, "general"))
}

func scanRoom(t *testing.T, db *badger.DB, room domain.RoomName) []domain.Message {
	t.Helper()
	var got []domain.Message
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = RoomPrefix(room)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var m domain.Message
				if err := json.Unmarshal(v, &m); err != nil {
					return err
				}
				got = append(got, m)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	return got
}

func TestBadgerArchive_RoomNamesWithSeparator(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	arc := New(openDB(t, dir), 4)

	at := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	plain, err := domain.NewMessage("plain-id", domain.UserMessage, "hi", "a", at, "bob")
	req.NoError(err)
	nested, err := domain.NewMessage("nested-id", domain.UserMessage, "hi", "a:b", at, "bob")
	req.NoError(err)
	arc.Store(plain)
	arc.Store(nested)
	req.NoError(arc.Close())

	db := openDB(t, dir)
	defer db.Close()
	req.Equal([]domain.Message{plain}, scanRoom(t, db, "a"))
	req.Equal([]domain.Message{nested}, scanRoom(t, db, "a:b"))
}

func TestOpen_LockedDirectory(t *testing.T) {
	dir := t.TempDir()
	first, err := Open(dir, 1)
	require.NoError(t, err)
	defer first.Close()

	_, err = Open(dir, 1)
	require.Error(t, err)
}
