// Package database opens the MySQL connection pool used by every
// repository in the application.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Pool bundles the connection-pool knobs so callers can tune them from
// configuration instead of editing this package.
type Pool struct {
	MaxOpen     int           // maximum open connections
	MaxIdle     int           // maximum idle connections kept around
	MaxLifetime time.Duration // recycle connections older than this
}

// dsn builds the driver connection string. parseTime maps DATETIME
// columns onto time.Time and loc=UTC keeps every timestamp in UTC on
// both sides of the wire.
func dsn(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)
}

// Open connects to MySQL, applies the pool settings and verifies the
// connection with a short ping before handing the pool back.
func Open(user, pass, host, port, name string, pool Pool) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(pool.MaxOpen)
	db.SetMaxIdleConns(pool.MaxIdle)
	db.SetConnMaxLifetime(pool.MaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
