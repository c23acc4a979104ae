// internal/repository/postgres/ticket_repo_test.go
package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicketNumberFormat(t *testing.T) {
	day := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "TKT-20260829-0001", ticketNumber(day, 1))
	assert.Equal(t, "TKT-20260829-0042", ticketNumber(day, 42))
	assert.Equal(t, "TKT-20260829-12345", ticketNumber(day, 12345))
}

func TestTicketNumberUsesUTCDate(t *testing.T) {
	// 23:30 in UTC+2 is still the previous day in UTC.
	loc := time.FixedZone("UTC+2", 2*60*60)
	day := time.Date(2026, 8, 30, 0, 30, 0, 0, loc)

	assert.Equal(t, "TKT-20260829-0001", ticketNumber(day, 1))
}
