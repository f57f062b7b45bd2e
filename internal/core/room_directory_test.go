package core

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dkeye/roomchat/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestRoomDirectory_Create(t *testing.T) {
	req := require.New(t)
	d := NewRoomDirectory()

	req.False(d.Exists("general"))
	req.Equal(Created, d.Create("general"))
	req.True(d.Exists("general"))
	req.Equal(AlreadyExists, d.Create("general"))
	req.Equal(Created, d.Create("random"))
	req.Equal([]domain.RoomName{"general", "random"}, d.List())
}

func TestRoomDirectory_ConcurrentCreateSucceedsOnce(t *testing.T) {
	d := NewRoomDirectory()
	var created atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.Create("dup") == Created {
				created.Add(1)
			}
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, created.Load())
	require.Len(t, d.List(), 1)
}

func TestRoomDirectory_ListIsACopy(t *testing.T) {
	d := NewRoomDirectory()
	for i := 0; i < 3; i++ {
		d.Create(domain.RoomName(fmt.Sprintf("room-%d", i)))
	}
	list := d.List()
	list[0] = "mutated"
	require.Equal(t, domain.RoomName("room-0"), d.List()[0])
}
