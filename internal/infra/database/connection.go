package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq" // Driver de Postgres
)

// NewDBConnection abre la conexión, configura el pool y hace Ping.
func NewDBConnection(connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// Pool: los intakes son cortos, no hace falta mucho más.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}
