// internal/chat/rooms.go
package chat

import "sync"

// RoomTable tracks which identities are subscribed to live updates for
// each booking's conversation. Rooms are created lazily on first join and
// deleted as soon as their member set empties.
type RoomTable struct {
	mu    sync.RWMutex
	rooms map[string]map[string]bool
}

func NewRoomTable() *RoomTable {
	return &RoomTable{rooms: make(map[string]map[string]bool)}
}

// Join adds userID to the booking's room. Idempotent.
func (t *RoomTable) Join(bookingID, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	members, ok := t.rooms[bookingID]
	if !ok {
		members = make(map[string]bool)
		t.rooms[bookingID] = members
	}
	members[userID] = true
}

// Leave removes userID from the booking's room, deleting the room when it
// empties.
func (t *RoomTable) Leave(bookingID, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	members, ok := t.rooms[bookingID]
	if !ok {
		return
	}
	delete(members, userID)
	if len(members) == 0 {
		delete(t.rooms, bookingID)
	}
}

// RemoveFromAll removes userID from every room it is in. Called on
// disconnect cleanup.
func (t *RoomTable) RemoveFromAll(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for bookingID, members := range t.rooms {
		if members[userID] {
			delete(members, userID)
			if len(members) == 0 {
				delete(t.rooms, bookingID)
			}
		}
	}
}

// MembersOf returns a copy of the booking's member set, possibly empty.
func (t *RoomTable) MembersOf(bookingID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	members := t.rooms[bookingID]
	out := make([]string, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	return out
}

// Contains reports whether userID is in the booking's room.
func (t *RoomTable) Contains(bookingID, userID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rooms[bookingID][userID]
}

// Len returns the number of active rooms.
func (t *RoomTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}
