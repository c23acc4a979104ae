// internal/domain/booking/entity_test.go
package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsParticipant(t *testing.T) {
	b := &Booking{ID: "b1", ClientID: "client-1", ArtisanID: "artisan-1"}

	assert.True(t, b.IsParticipant("client-1"))
	assert.True(t, b.IsParticipant("artisan-1"))
	assert.False(t, b.IsParticipant("someone-else"))
	assert.False(t, b.IsParticipant(""))
}

func TestOtherParticipant(t *testing.T) {
	b := &Booking{ID: "b1", ClientID: "client-1", ArtisanID: "artisan-1"}

	assert.Equal(t, "artisan-1", b.OtherParticipant("client-1"))
	assert.Equal(t, "client-1", b.OtherParticipant("artisan-1"))
	assert.Equal(t, "", b.OtherParticipant("someone-else"))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("archived").Valid())
}
