// internal/chat/rooms_test.go
package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomTableJoinIsIdempotent(t *testing.T) {
	rooms := NewRoomTable()

	rooms.Join("booking-1", "user-1")
	rooms.Join("booking-1", "user-1")
	rooms.Join("booking-1", "user-1")

	assert.Equal(t, []string{"user-1"}, rooms.MembersOf("booking-1"))
	assert.Equal(t, 1, rooms.Len())
}

func TestRoomTableLeaveDeletesEmptyRoom(t *testing.T) {
	rooms := NewRoomTable()

	rooms.Join("booking-1", "user-1")
	rooms.Join("booking-1", "user-2")

	rooms.Leave("booking-1", "user-1")
	assert.Equal(t, 1, rooms.Len())
	assert.False(t, rooms.Contains("booking-1", "user-1"))
	assert.True(t, rooms.Contains("booking-1", "user-2"))

	rooms.Leave("booking-1", "user-2")
	assert.Equal(t, 0, rooms.Len())
	assert.Empty(t, rooms.MembersOf("booking-1"))
}

func TestRoomTableLeaveUnknownRoom(t *testing.T) {
	rooms := NewRoomTable()
	rooms.Leave("missing", "user-1")
	assert.Equal(t, 0, rooms.Len())
}

func TestRoomTableRemoveFromAll(t *testing.T) {
	rooms := NewRoomTable()

	rooms.Join("booking-1", "user-1")
	rooms.Join("booking-1", "user-2")
	rooms.Join("booking-2", "user-1")

	rooms.RemoveFromAll("user-1")

	// booking-2 only held user-1 so it must be gone entirely.
	assert.Equal(t, 1, rooms.Len())
	assert.False(t, rooms.Contains("booking-1", "user-1"))
	assert.True(t, rooms.Contains("booking-1", "user-2"))
	assert.Empty(t, rooms.MembersOf("booking-2"))
}
