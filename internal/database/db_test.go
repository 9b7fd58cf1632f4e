package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	got := dsn("app", "s3cret", "db.local", "3306", "bookings")
	assert.Equal(t, "app:s3cret@tcp(db.local:3306)/bookings?charset=utf8mb4&parseTime=true&loc=UTC", got)
}

func TestDSNWithoutPassword(t *testing.T) {
	got := dsn("root", "", "127.0.0.1", "3307", "bookings")
	assert.Equal(t, "root@tcp(127.0.0.1:3307)/bookings?charset=utf8mb4&parseTime=true&loc=UTC", got)
}
