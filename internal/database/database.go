package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection. The handle's
// lifecycle is owned by the caller (the composition root closes it on
// shutdown).
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
